package codec

import (
	"errors"

	"github.com/klauspost/compress/zstd"

	"snipvault/internal/snip"
)

// ZstdCodec implements snip.Codec using zstandard. A single encoder and
// decoder pair is created up front and reused via EncodeAll/DecodeAll, which
// is safe for concurrent use.
type ZstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var _ snip.Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a ZstdCodec with default compression level.
func NewZstdCodec() (*ZstdCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCodec{enc: enc, dec: dec}, nil
}

// Compress returns the zstd-compressed form of data.
func (c *ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, &snip.CompressionError{Err: errors.New("empty input")}
	}
	return c.enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func (c *ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, &snip.DecompressionError{Err: errors.New("empty input")}
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, &snip.DecompressionError{Err: err}
	}
	return out, nil
}
