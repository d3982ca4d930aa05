package codec

import (
	"bytes"
	"errors"
	"testing"

	"snipvault/internal/snip"
)

func TestZstdCodec_RoundTrip(t *testing.T) {
	c, err := NewZstdCodec()
	if err != nil {
		t.Fatalf("NewZstdCodec() error = %v", err)
	}

	inputs := map[string][]byte{
		"short text":  []byte("hello world"),
		"repetitive":  bytes.Repeat([]byte("snippet "), 1000),
		"single byte": {0x42},
		"binary":      {0x00, 0xff, 0x10, 0x80, 0x00, 0x00, 0x7f},
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			compressed, err := c.Compress(input)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}

			got, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(got, input) {
				t.Error("round trip is not byte exact")
			}
		})
	}
}

func TestZstdCodec_ShrinksRepetitiveData(t *testing.T) {
	c, _ := NewZstdCodec()

	input := bytes.Repeat([]byte("A"), 4096)
	compressed, err := c.Compress(input)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if len(compressed) >= len(input) {
		t.Errorf("compressed %d bytes to %d, expected shrinkage", len(input), len(compressed))
	}
}

func TestZstdCodec_Errors(t *testing.T) {
	c, _ := NewZstdCodec()

	t.Run("compress rejects empty input", func(t *testing.T) {
		_, err := c.Compress(nil)
		var cerr *snip.CompressionError
		if !errors.As(err, &cerr) {
			t.Errorf("Compress(nil) error = %v, want CompressionError", err)
		}
	})

	t.Run("decompress rejects empty input", func(t *testing.T) {
		_, err := c.Decompress(nil)
		var derr *snip.DecompressionError
		if !errors.As(err, &derr) {
			t.Errorf("Decompress(nil) error = %v, want DecompressionError", err)
		}
	})

	t.Run("decompress rejects malformed data", func(t *testing.T) {
		_, err := c.Decompress([]byte("this is not zstd data"))
		var derr *snip.DecompressionError
		if !errors.As(err, &derr) {
			t.Errorf("Decompress(garbage) error = %v, want DecompressionError", err)
		}
	})

	t.Run("decompress rejects truncated data", func(t *testing.T) {
		compressed, err := c.Compress(bytes.Repeat([]byte("data"), 500))
		if err != nil {
			t.Fatalf("Compress() error = %v", err)
		}

		_, err = c.Decompress(compressed[:len(compressed)/2])
		var derr *snip.DecompressionError
		if !errors.As(err, &derr) {
			t.Errorf("Decompress(truncated) error = %v, want DecompressionError", err)
		}
	})
}
