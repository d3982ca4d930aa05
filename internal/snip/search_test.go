package snip_test

import (
	"context"
	"errors"
	"testing"

	"snipvault/internal/snip"
	"snipvault/internal/testutil"
)

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*snip.Service, int64, int64) {
		t.Helper()
		store := testutil.NewTestStore(t)
		svc := testutil.NewTestService(t, store, 2000, 1<<20)

		hello, err := svc.Create(ctx, 1, []byte("hello world"), "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		goodbye, err := svc.Create(ctx, 1, []byte("goodbye"), "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return svc, hello.ID, goodbye.ID
	}

	t.Run("matches a single snippet", func(t *testing.T) {
		svc, helloID, _ := setup(t)

		matches, err := svc.Search(ctx, 1, "hello")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(matches) != 1 || matches[0].ID != helloID {
			t.Fatalf("Search(hello) matched %d snippets, want exactly snippet %d", len(matches), helloID)
		}
		if string(matches[0].Content) != "hello world" {
			t.Errorf("match content = %q, want %q", matches[0].Content, "hello world")
		}
	})

	t.Run("matches multiple snippets", func(t *testing.T) {
		svc, _, _ := setup(t)

		matches, err := svc.Search(ctx, 1, "o")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(matches) != 2 {
			t.Errorf("Search(o) matched %d snippets, want 2", len(matches))
		}
	})

	t.Run("is case insensitive", func(t *testing.T) {
		svc, helloID, _ := setup(t)

		matches, err := svc.Search(ctx, 1, "HELLO")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(matches) != 1 || matches[0].ID != helloID {
			t.Errorf("Search(HELLO) matched %d snippets, want snippet %d", len(matches), helloID)
		}
	})

	t.Run("rejects empty and whitespace queries", func(t *testing.T) {
		svc, _, _ := setup(t)

		if _, err := svc.Search(ctx, 1, ""); !errors.Is(err, snip.ErrEmptyQuery) {
			t.Errorf("Search(\"\") error = %v, want ErrEmptyQuery", err)
		}
		if _, err := svc.Search(ctx, 1, "   "); !errors.Is(err, snip.ErrEmptyQuery) {
			t.Errorf("Search(whitespace) error = %v, want ErrEmptyQuery", err)
		}
	})

	t.Run("does not see other owners", func(t *testing.T) {
		svc, _, _ := setup(t)

		matches, err := svc.Search(ctx, 2, "hello")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("Search as owner 2 matched %d snippets, want 0", len(matches))
		}
	})

	t.Run("skips deleted snippets", func(t *testing.T) {
		svc, _, goodbyeID := setup(t)

		if err := svc.Delete(ctx, 1, goodbyeID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		matches, err := svc.Search(ctx, 1, "o")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(matches) != 1 {
			t.Errorf("Search(o) matched %d snippets after delete, want 1", len(matches))
		}
	})
}
