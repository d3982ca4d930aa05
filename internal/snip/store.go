package snip

import (
	"context"
	"time"

	"snipvault/internal/model"
)

// Store provides durable persistence for snippets and their chunks. It is the
// source of truth; the recency index is a derived cache on top of it.
//
// Implementations must guarantee that a snippet is only ever observable as
// COMPLETED after all of its chunk rows are durably written (CompleteSnippet
// is called last by the write path and must reject snippets that are not in
// PROCESSING state).
type Store interface {
	// Snippet metadata operations

	// CreateSnippet inserts a new snippet row in PROCESSING state and
	// assigns its ID.
	CreateSnippet(ctx context.Context, s *model.Snippet) error

	// GetSnippet returns the snippet with the given id belonging to owner.
	// Returns nil (no error) if the row does not exist, is soft deleted,
	// or belongs to a different owner.
	GetSnippet(ctx context.Context, ownerID, id int64) (*model.Snippet, error)

	// CompleteSnippet transitions a PROCESSING snippet to COMPLETED and
	// records its final chunk count and total size. Fails if the snippet
	// is not in PROCESSING state.
	CompleteSnippet(ctx context.Context, id int64, totalChunks int, totalSize int64, now time.Time) error

	// FailSnippet transitions a PROCESSING snippet to FAILED.
	FailSnippet(ctx context.Context, id int64, now time.Time) error

	// MarkDeleted sets the soft-delete flag on an owner's snippet.
	// Returns false if no matching live snippet exists.
	MarkDeleted(ctx context.Context, ownerID, id int64, now time.Time) (bool, error)

	// ListCompleted returns all live (non-deleted) COMPLETED snippets for
	// an owner, newest first.
	ListCompleted(ctx context.Context, ownerID int64) ([]*model.Snippet, error)

	// ListRecent returns up to limit live COMPLETED snippets for an owner
	// ordered by most recent update. Used to rebuild the recency index on
	// a cold cache.
	ListRecent(ctx context.Context, ownerID int64, limit int) ([]*model.Snippet, error)

	// GetSnippetsByIDs returns the owner's live COMPLETED snippets among
	// ids, keyed by id.
	GetSnippetsByIDs(ctx context.Context, ownerID int64, ids []int64) (map[int64]*model.Snippet, error)

	// Chunk operations

	// PutChunk durably stores one chunk for a snippet. The physical
	// payload is keyed by its content hash: if a payload with the same
	// hash already exists it is shared rather than stored again.
	PutChunk(ctx context.Context, snippetID int64, index int, data *model.ChunkData, now time.Time) error

	// GetChunksOrdered returns all chunks for a snippet ordered by index
	// ascending, each joined with its physical payload.
	GetChunksOrdered(ctx context.Context, snippetID int64) ([]*model.Chunk, error)

	// GetChunksOrderedForMany returns the chunks for all given snippets in
	// one query, grouped by snippet id, each group ordered by index.
	GetChunksOrderedForMany(ctx context.Context, snippetIDs []int64) (map[int64][]*model.Chunk, error)

	// FindChunkDataByHash returns the stored physical payload for a
	// plaintext fingerprint, or nil if no chunk with that hash exists.
	FindChunkDataByHash(ctx context.Context, hash string) (*model.ChunkData, error)

	// DeleteChunksForSnippet removes all chunk rows for a snippet. Shared
	// physical payloads are left in place; orphan cleanup is an external
	// housekeeping concern.
	DeleteChunksForSnippet(ctx context.Context, snippetID int64) error

	// Close closes the underlying connection.
	Close() error
}
