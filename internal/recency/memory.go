package recency

import (
	"context"
	"sync"

	"snipvault/internal/snip"
)

// MemoryIndex is an in-memory implementation of the RecencyIndex interface,
// useful for testing and single-process runs. A single mutex guards all owner
// lists, so every operation is atomic per owner.
type MemoryIndex struct {
	mu    sync.Mutex
	cap   int
	lists map[int64][]int64
}

var _ snip.RecencyIndex = (*MemoryIndex)(nil)

// NewMemoryIndex creates a MemoryIndex with the given per-owner cap.
func NewMemoryIndex(cap int) *MemoryIndex {
	return &MemoryIndex{
		cap:   cap,
		lists: make(map[int64][]int64),
	}
}

func (m *MemoryIndex) Touch(_ context.Context, ownerID, snippetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := removeID(m.lists[ownerID], snippetID)
	list = append([]int64{snippetID}, list...)
	if len(list) > m.cap {
		list = list[:m.cap]
	}
	m.lists[ownerID] = list
	return nil
}

func (m *MemoryIndex) Remove(_ context.Context, ownerID, snippetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists[ownerID] = removeID(m.lists[ownerID], snippetID)
	return nil
}

func (m *MemoryIndex) List(_ context.Context, ownerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[ownerID]
	out := make([]int64, len(list))
	copy(out, list)
	return out, nil
}

func (m *MemoryIndex) Initialize(_ context.Context, ownerID int64, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]int64, 0, len(ids))
	list = append(list, ids...)
	if len(list) > m.cap {
		list = list[:m.cap]
	}
	m.lists[ownerID] = list
	return nil
}

func removeID(list []int64, id int64) []int64 {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
