package snip

import "fmt"

// SplitChunks splits content into ordered chunks of at most chunkSize bytes.
// All chunks except the last are exactly chunkSize long. Empty content and
// content larger than maxContentSize are rejected before any slicing.
//
// The returned slices alias content; callers must not mutate them.
func SplitChunks(content []byte, chunkSize int, maxContentSize int64) ([][]byte, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size: %d", chunkSize)
	}
	if len(content) == 0 {
		return nil, ErrEmptyContent
	}
	if int64(len(content)) > maxContentSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrContentTooLarge, len(content), maxContentSize)
	}

	chunks := make([][]byte, 0, (len(content)+chunkSize-1)/chunkSize)
	for start := 0; start < len(content); start += chunkSize {
		end := start + chunkSize
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks, nil
}
