package keystore

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"snipvault/internal/cipher"
)

// Keystore manages the process-wide symmetric data key. The key is generated
// once, encrypted at rest with the user's passphrase using age's scrypt-based
// passphrase encryption, and unlocked into memory at startup. The plaintext
// key is never written to disk.
type Keystore struct {
	keyPath string
}

// New creates a Keystore reading and writing the key file at keyPath.
func New(keyPath string) *Keystore {
	return &Keystore{keyPath: keyPath}
}

// IsConfigured returns true if the key file exists.
func (k *Keystore) IsConfigured() bool {
	_, err := os.Stat(k.keyPath)
	return err == nil
}

// Setup performs one-time key generation: a random 32-byte data key is
// created and written to the key file encrypted with the passphrase.
// Fails if a key file already exists.
func (k *Keystore) Setup(passphrase string) error {
	if k.IsConfigured() {
		return fmt.Errorf("key file already exists: %s", k.keyPath)
	}

	key := make([]byte, cipher.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generating data key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(k.keyPath), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	f, err := os.OpenFile(k.keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating key file: %w", err)
	}
	defer f.Close()

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	w, err := age.Encrypt(f, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(key); err != nil {
		return fmt.Errorf("writing encrypted key: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted key: %w", err)
	}

	return nil
}

// Unlock decrypts the data key using the passphrase and returns it.
// Returns an error if the passphrase is incorrect or the key file is damaged.
func (k *Keystore) Unlock(passphrase string) ([]byte, error) {
	data, err := os.ReadFile(k.keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting key file: %w", err)
	}

	key, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted key: %w", err)
	}
	if len(key) != cipher.KeySize {
		return nil, fmt.Errorf("key file contains %d bytes, expected %d", len(key), cipher.KeySize)
	}

	return key, nil
}
