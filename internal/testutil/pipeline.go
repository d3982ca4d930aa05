package testutil

import (
	"testing"

	"snipvault/internal/cipher"
	"snipvault/internal/codec"
	"snipvault/internal/recency"
	"snipvault/internal/snip"
)

// TestKey returns a deterministic 32-byte key for tests.
func TestKey() []byte {
	key := make([]byte, cipher.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// NewTestCipher creates an XChaCha cipher with the deterministic test key.
func NewTestCipher(t *testing.T) *cipher.XChaChaCipher {
	t.Helper()
	c, err := cipher.NewXChaCha(TestKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	return c
}

// NewTestCodec creates a zstd codec.
func NewTestCodec(t *testing.T) *codec.ZstdCodec {
	t.Helper()
	c, err := codec.NewZstdCodec()
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return c
}

// NewTestService wires a snip.Service over an in-memory store and recency
// index with the real codec and cipher. chunkSize and maxContentSize control
// the chunker.
func NewTestService(t *testing.T, store snip.Store, chunkSize int, maxContentSize int64) *snip.Service {
	t.Helper()
	return snip.NewService(
		store,
		recency.NewMemoryIndex(snip.RecencyCap),
		NewTestCodec(t),
		NewTestCipher(t),
		snip.NewNopLogger(),
		FixedClock(),
		chunkSize,
		maxContentSize,
	)
}
