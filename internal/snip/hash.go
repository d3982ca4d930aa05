package snip

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the BLAKE3-256 hash of a plaintext chunk as a lowercase
// hex string. This is the dedup key and integrity reference for the chunk; it
// is always computed over the plaintext, before compression and encryption.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
