package snip

// Codec performs lossless per-chunk compression. Round trips must be byte
// exact: Decompress(Compress(x)) == x for all non-empty x.
type Codec interface {
	// Compress returns the compressed form of data. Empty input is a
	// CompressionError.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress. Empty or malformed input is a
	// DecompressionError.
	Decompress(data []byte) ([]byte, error)
}

// Cipher performs per-chunk symmetric authenticated encryption with a fresh
// IV per call. The key is process-wide configuration.
type Cipher interface {
	// Encrypt encrypts plaintext and returns the ciphertext together with
	// the freshly generated IV used for it. IVs are never reused.
	Encrypt(plaintext []byte) (ciphertext, iv []byte, err error)

	// Decrypt reverses Encrypt. A mismatched IV, wrong key material, or
	// tampered ciphertext is a DecryptionError.
	Decrypt(ciphertext, iv []byte) ([]byte, error)
}
