package model

import "time"

// Snippet represents one logical stored content item. Its content is held as
// an ordered sequence of encrypted chunks; the snippet row itself carries only
// metadata. TotalChunks and TotalSize are authoritative once Status is
// StatusCompleted and meaningless before that.
type Snippet struct {
	ID          int64
	OwnerID     int64
	SourceRef   string // optional origin hint (URL, filename), may be empty
	TotalChunks int
	TotalSize   int64 // byte size of the original content, pre-compression
	Status      SnippetStatus
	Deleted     bool // soft-delete flag; rows are never physically removed here
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk is one ordered slice of a snippet's content as read back from the
// store: the chunk row joined with its physical payload.
type Chunk struct {
	ID         int64
	SnippetID  int64
	ChunkIndex int // 0-based, contiguous within a snippet
	ChunkData
	CreatedAt time.Time
}

// ChunkData is the physical stored form of one chunk, keyed by the BLAKE3
// fingerprint of the plaintext. Two chunk rows whose plaintexts hash equal
// share a single ChunkData record, so identical chunks are stored once.
type ChunkData struct {
	Hash       string // plaintext fingerprint, lowercase hex
	Payload    []byte // ciphertext of the (possibly compressed) chunk
	IV         []byte // per-chunk nonce used for encryption
	Compressed bool   // whether Payload was compressed before encryption
}

// SnippetContent is a snippet together with its reassembled plaintext.
type SnippetContent struct {
	Snippet
	Content []byte
}
