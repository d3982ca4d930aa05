package snip

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitChunks(t *testing.T) {
	t.Run("splits 5000 bytes into 2000-byte chunks", func(t *testing.T) {
		content := bytes.Repeat([]byte("A"), 5000)

		chunks, err := SplitChunks(content, 2000, 1<<20)
		if err != nil {
			t.Fatalf("SplitChunks() error = %v", err)
		}

		if len(chunks) != 3 {
			t.Fatalf("len(chunks) = %d, want 3", len(chunks))
		}
		wantSizes := []int{2000, 2000, 1000}
		for i, want := range wantSizes {
			if len(chunks[i]) != want {
				t.Errorf("len(chunks[%d]) = %d, want %d", i, len(chunks[i]), want)
			}
		}

		if got := bytes.Join(chunks, nil); !bytes.Equal(got, content) {
			t.Error("concatenated chunks do not reproduce the original content")
		}
	})

	t.Run("content smaller than chunk size yields one chunk", func(t *testing.T) {
		chunks, err := SplitChunks([]byte("hi"), 2000, 1<<20)
		if err != nil {
			t.Fatalf("SplitChunks() error = %v", err)
		}
		if len(chunks) != 1 || len(chunks[0]) != 2 {
			t.Errorf("got %d chunks, first of length %d", len(chunks), len(chunks[0]))
		}
	})

	t.Run("exact multiple of chunk size has no short tail", func(t *testing.T) {
		chunks, err := SplitChunks(make([]byte, 4000), 2000, 1<<20)
		if err != nil {
			t.Fatalf("SplitChunks() error = %v", err)
		}
		if len(chunks) != 2 {
			t.Fatalf("len(chunks) = %d, want 2", len(chunks))
		}
		for i, c := range chunks {
			if len(c) != 2000 {
				t.Errorf("len(chunks[%d]) = %d, want 2000", i, len(c))
			}
		}
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := SplitChunks(nil, 2000, 1<<20)
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("SplitChunks() error = %v, want ErrEmptyContent", err)
		}
	})

	t.Run("rejects content over the maximum size", func(t *testing.T) {
		_, err := SplitChunks(make([]byte, 101), 10, 100)
		if !errors.Is(err, ErrContentTooLarge) {
			t.Errorf("SplitChunks() error = %v, want ErrContentTooLarge", err)
		}
	})

	t.Run("rejects non-positive chunk size", func(t *testing.T) {
		if _, err := SplitChunks([]byte("x"), 0, 100); err == nil {
			t.Error("SplitChunks() expected error for zero chunk size")
		}
	})
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("hellp"))

	if a != b {
		t.Error("identical input produced different fingerprints")
	}
	if a == c {
		t.Error("different input produced the same fingerprint")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}
