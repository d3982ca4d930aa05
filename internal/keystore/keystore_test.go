package keystore

import (
	"path/filepath"
	"testing"

	"snipvault/internal/cipher"
)

func TestKeystore_SetupAndUnlock(t *testing.T) {
	ks := New(filepath.Join(t.TempDir(), "keys", "snipvault.key"))

	if ks.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup")
	}

	if err := ks.Setup("correct horse"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !ks.IsConfigured() {
		t.Fatal("IsConfigured() = false after Setup")
	}

	key, err := ks.Unlock("correct horse")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if len(key) != cipher.KeySize {
		t.Errorf("Unlock() returned %d bytes, want %d", len(key), cipher.KeySize)
	}
}

func TestKeystore_UnlockWrongPassphrase(t *testing.T) {
	ks := New(filepath.Join(t.TempDir(), "snipvault.key"))
	if err := ks.Setup("right"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if _, err := ks.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase succeeded, want error")
	}
}

func TestKeystore_SetupTwice(t *testing.T) {
	ks := New(filepath.Join(t.TempDir(), "snipvault.key"))
	if err := ks.Setup("pass"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if err := ks.Setup("pass"); err == nil {
		t.Error("second Setup() succeeded, want error")
	}
}

func TestKeystore_UnlockMissingFile(t *testing.T) {
	ks := New(filepath.Join(t.TempDir(), "absent.key"))
	if _, err := ks.Unlock("pass"); err == nil {
		t.Error("Unlock() with no key file succeeded, want error")
	}
}
