package model

// SnippetStatus is the write-pipeline lifecycle state of a snippet.
type SnippetStatus string

const (
	// StatusProcessing is set when the snippet row is created, before any
	// chunk has been durably written.
	StatusProcessing SnippetStatus = "PROCESSING"
	// StatusCompleted means all chunks are durably stored and the chunk
	// count and total size on the snippet are trustworthy.
	StatusCompleted SnippetStatus = "COMPLETED"
	// StatusFailed means the write pipeline failed after the row was
	// created; any partially written chunks have been removed.
	StatusFailed SnippetStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s SnippetStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// transition. The only legal moves are PROCESSING→COMPLETED and
// PROCESSING→FAILED; completed and failed snippets never change status again.
func (s SnippetStatus) CanTransition(next SnippetStatus) bool {
	return s == StatusProcessing && (next == StatusCompleted || next == StatusFailed)
}
