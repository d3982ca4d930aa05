package testutil

import (
	"context"
	"errors"
	"time"

	"snipvault/internal/model"
	"snipvault/internal/snip"
)

// ErrInjected is the failure returned by FlakyStore.
var ErrInjected = errors.New("injected store failure")

// FlakyStore wraps a Store and fails PutChunk once a configured number of
// chunk writes have succeeded. Used to exercise partial-write cleanup.
type FlakyStore struct {
	snip.Store
	// FailAfter is the number of PutChunk calls allowed to succeed before
	// every later call fails.
	FailAfter int

	puts int
}

// NewFlakyStore wraps store, allowing failAfter successful PutChunk calls.
func NewFlakyStore(store snip.Store, failAfter int) *FlakyStore {
	return &FlakyStore{Store: store, FailAfter: failAfter}
}

func (f *FlakyStore) PutChunk(ctx context.Context, snippetID int64, index int, data *model.ChunkData, now time.Time) error {
	if f.puts >= f.FailAfter {
		return ErrInjected
	}
	f.puts++
	return f.Store.PutChunk(ctx, snippetID, index, data, now)
}
