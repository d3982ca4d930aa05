package cipher

import (
	"bytes"
	"errors"
	"testing"

	"snipvault/internal/snip"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i * 3)
	}
	return key
}

func TestXChaChaCipher_RoundTrip(t *testing.T) {
	c, err := NewXChaCha(testKey())
	if err != nil {
		t.Fatalf("NewXChaCha() error = %v", err)
	}

	plaintext := []byte("some snippet chunk content")
	ciphertext, iv, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Error("ciphertext equals plaintext")
	}

	got, err := c.Decrypt(ciphertext, iv)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Error("round trip is not byte exact")
	}
}

func TestXChaChaCipher_FreshIVPerCall(t *testing.T) {
	c, _ := NewXChaCha(testKey())

	plaintext := []byte("same input")
	_, iv1, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	_, iv2, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Equal(iv1, iv2) {
		t.Error("two encryptions produced the same IV")
	}
}

func TestXChaChaCipher_DecryptFailures(t *testing.T) {
	c, _ := NewXChaCha(testKey())

	plaintext := []byte("authenticated content")
	ciphertext, iv, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte{}, ciphertext...)
		tampered[0] ^= 0x01

		_, err := c.Decrypt(tampered, iv)
		var derr *snip.DecryptionError
		if !errors.As(err, &derr) {
			t.Errorf("Decrypt(tampered) error = %v, want DecryptionError", err)
		}
	})

	t.Run("mismatched IV", func(t *testing.T) {
		wrongIV := append([]byte{}, iv...)
		wrongIV[0] ^= 0x01

		_, err := c.Decrypt(ciphertext, wrongIV)
		var derr *snip.DecryptionError
		if !errors.As(err, &derr) {
			t.Errorf("Decrypt(wrong IV) error = %v, want DecryptionError", err)
		}
	})

	t.Run("invalid IV length", func(t *testing.T) {
		_, err := c.Decrypt(ciphertext, []byte{1, 2, 3})
		var derr *snip.DecryptionError
		if !errors.As(err, &derr) {
			t.Errorf("Decrypt(short IV) error = %v, want DecryptionError", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKey := testKey()
		otherKey[0] ^= 0xff
		other, err := NewXChaCha(otherKey)
		if err != nil {
			t.Fatalf("NewXChaCha() error = %v", err)
		}

		_, err = other.Decrypt(ciphertext, iv)
		var derr *snip.DecryptionError
		if !errors.As(err, &derr) {
			t.Errorf("Decrypt with wrong key error = %v, want DecryptionError", err)
		}
	})
}

func TestNewXChaCha_RejectsBadKeySize(t *testing.T) {
	if _, err := NewXChaCha(make([]byte, 16)); err == nil {
		t.Error("NewXChaCha() expected error for 16-byte key")
	}
}
