package snip

import (
	"errors"
	"fmt"
)

// Precondition failures, rejected before any write happens.
var (
	// ErrEmptyContent is returned when content to store has zero length.
	ErrEmptyContent = errors.New("content is empty")

	// ErrContentTooLarge is returned when content exceeds the configured
	// maximum size.
	ErrContentTooLarge = errors.New("content exceeds maximum size")

	// ErrEmptyQuery is returned by Search for an empty or whitespace-only
	// query string.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrNotFound is returned when a snippet id does not exist, is soft
	// deleted, or is not owned by the caller.
	ErrNotFound = errors.New("snippet not found")
)

// CompressionError reports a failure compressing a chunk.
type CompressionError struct {
	Err error
}

func (e *CompressionError) Error() string { return fmt.Sprintf("compression failed: %v", e.Err) }
func (e *CompressionError) Unwrap() error { return e.Err }

// DecompressionError reports corrupted or malformed compressed chunk data.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string { return fmt.Sprintf("decompression failed: %v", e.Err) }
func (e *DecompressionError) Unwrap() error { return e.Err }

// DecryptionError reports a chunk that failed to decrypt: wrong key material,
// a mismatched IV, or tampered ciphertext.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string { return fmt.Sprintf("decryption failed: %v", e.Err) }
func (e *DecryptionError) Unwrap() error { return e.Err }

// CorruptedWriteError reports a write pipeline that failed after the snippet
// row was created. By the time it is returned the partially written chunks
// have been removed and the snippet is marked FAILED. Committed is the number
// of chunks that had been durably written before the failure.
type CorruptedWriteError struct {
	SnippetID int64
	Committed int
	Err       error
}

func (e *CorruptedWriteError) Error() string {
	return fmt.Sprintf("snippet %d write failed after %d chunks: %v", e.SnippetID, e.Committed, e.Err)
}

func (e *CorruptedWriteError) Unwrap() error { return e.Err }

// CorruptedSnippetError reports a read-time invariant violation: a missing
// chunk, a chunk count mismatch, or a reassembled size that does not match
// the stored total. Content is never silently truncated or padded; this error
// is returned instead.
type CorruptedSnippetError struct {
	SnippetID int64
	Reason    string
}

func (e *CorruptedSnippetError) Error() string {
	return fmt.Sprintf("snippet %d is corrupted: %s", e.SnippetID, e.Reason)
}
