package snip

import "context"

// RecencyCap is the maximum number of snippet ids kept in an owner's recency
// index. Older entries beyond the cap are evicted from the index only; the
// underlying snippets are untouched.
const RecencyCap = 50

// RecencyIndex is a bounded, per-owner, most-recent-first list of snippet
// ids. It is a derived cache: if lost it is rebuilt from the store's
// most-recent query. Implementations must make each operation atomic per
// owner key: two concurrent touches for the same owner must not produce
// duplicate or lost entries.
type RecencyIndex interface {
	// Touch moves snippetID to the front of the owner's list, inserting it
	// if absent, and trims the list to the cap.
	Touch(ctx context.Context, ownerID, snippetID int64) error

	// Remove deletes snippetID from the owner's list. No-op if absent.
	Remove(ctx context.Context, ownerID, snippetID int64) error

	// List returns the owner's list front to back. An absent owner yields
	// an empty list.
	List(ctx context.Context, ownerID int64) ([]int64, error)

	// Initialize replaces the owner's list with ids (front first). Used to
	// populate a cold cache from durable storage.
	Initialize(ctx context.Context, ownerID int64, ids []int64) error
}
