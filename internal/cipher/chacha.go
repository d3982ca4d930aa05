package cipher

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"snipvault/internal/snip"
)

// KeySize is the required key length in bytes.
const KeySize = chacha20poly1305.KeySize

// XChaChaCipher implements snip.Cipher using XChaCha20-Poly1305. The extended
// 24-byte nonce makes random per-chunk nonces safe without any counter state,
// and the AEAD tag turns any ciphertext or IV corruption into a decryption
// failure instead of garbage plaintext.
type XChaChaCipher struct {
	aead cipher.AEAD
}

var _ snip.Cipher = (*XChaChaCipher)(nil)

// NewXChaCha creates a cipher from a 32-byte key.
func NewXChaCha(key []byte) (*XChaChaCipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}
	return &XChaChaCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random nonce and returns the
// ciphertext and the nonce.
func (c *XChaChaCipher) Encrypt(plaintext []byte) ([]byte, []byte, error) {
	iv := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("generating nonce: %w", err)
	}
	ciphertext := c.aead.Seal(nil, iv, plaintext, nil)
	return ciphertext, iv, nil
}

// Decrypt reverses Encrypt, authenticating the ciphertext against the IV.
func (c *XChaChaCipher) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != chacha20poly1305.NonceSizeX {
		return nil, &snip.DecryptionError{Err: fmt.Errorf("invalid IV length %d", len(iv))}
	}
	plaintext, err := c.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, &snip.DecryptionError{Err: err}
	}
	return plaintext, nil
}
