package snip

import (
	"bytes"
	"context"
	"fmt"

	"snipvault/internal/model"
)

// Service is the orchestration layer around the chunked content pipeline: it
// splits content into chunks, compresses and encrypts each one, deduplicates
// identical chunks by plaintext fingerprint, and reassembles chunks back into
// original content on read. It also keeps the per-owner recency index in step
// with the durable store.
type Service struct {
	store   Store
	recency RecencyIndex
	codec   Codec
	cipher  Cipher
	logger  Logger
	clock   Clock

	chunkSize      int
	maxContentSize int64
}

// NewService creates a Service with the provided dependencies.
// chunkSize is the fixed maximum chunk size in bytes; maxContentSize is the
// largest content accepted by Create.
func NewService(store Store, recency RecencyIndex, codec Codec, cipher Cipher, logger Logger, clock Clock, chunkSize int, maxContentSize int64) *Service {
	return &Service{
		store:          store,
		recency:        recency,
		codec:          codec,
		cipher:         cipher,
		logger:         logger,
		clock:          clock,
		chunkSize:      chunkSize,
		maxContentSize: maxContentSize,
	}
}

// Create stores content as a new snippet for owner and pushes it to the front
// of the owner's recency index.
//
// The snippet row is created in PROCESSING state, chunks are written one by
// one, and the row transitions to COMPLETED only after every chunk is durable.
// If anything fails partway, already-written chunks are removed, the snippet
// is marked FAILED, and a CorruptedWriteError carrying the number of chunks
// that had been committed is returned.
func (s *Service) Create(ctx context.Context, ownerID int64, content []byte, sourceRef string) (*model.Snippet, error) {
	chunks, err := SplitChunks(content, s.chunkSize, s.maxContentSize)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	snippet := &model.Snippet{
		OwnerID:   ownerID,
		SourceRef: sourceRef,
		Status:    model.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSnippet(ctx, snippet); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	committed := 0
	for i, plaintext := range chunks {
		data, err := s.sealChunk(ctx, plaintext)
		if err != nil {
			return nil, s.abortWrite(ctx, snippet.ID, committed, err)
		}
		if err := s.store.PutChunk(ctx, snippet.ID, i, data, s.clock.Now()); err != nil {
			return nil, s.abortWrite(ctx, snippet.ID, committed, fmt.Errorf("storing chunk %d: %w", i, err))
		}
		committed++
	}

	totalSize := int64(len(content))
	if !snippet.Status.CanTransition(model.StatusCompleted) {
		return nil, s.abortWrite(ctx, snippet.ID, committed, fmt.Errorf("illegal status transition %s -> %s", snippet.Status, model.StatusCompleted))
	}
	if err := s.store.CompleteSnippet(ctx, snippet.ID, len(chunks), totalSize, s.clock.Now()); err != nil {
		return nil, s.abortWrite(ctx, snippet.ID, committed, fmt.Errorf("completing snippet: %w", err))
	}
	snippet.Status = model.StatusCompleted
	snippet.TotalChunks = len(chunks)
	snippet.TotalSize = totalSize

	// The recency index is a rebuildable cache; a failure here must not
	// undo a durable write.
	if err := s.recency.Touch(ctx, ownerID, snippet.ID); err != nil {
		s.logger.Warn("recency touch failed", "owner", ownerID, "snippet", snippet.ID, "error", err)
	}

	s.logger.Info("snippet created", "owner", ownerID, "snippet", snippet.ID, "chunks", len(chunks), "size", totalSize)
	return snippet, nil
}

// sealChunk runs one plaintext chunk through the write pipeline:
// fingerprint, dedup lookup, compress, encrypt. On a fingerprint hit the
// stored payload and IV are reused verbatim and compression and encryption
// are skipped entirely.
func (s *Service) sealChunk(ctx context.Context, plaintext []byte) (*model.ChunkData, error) {
	hash := Fingerprint(plaintext)

	existing, err := s.store.FindChunkDataByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		s.logger.Debug("chunk deduplicated", "hash", hash)
		return existing, nil
	}

	compressed, err := s.codec.Compress(plaintext)
	if err != nil {
		return nil, err
	}

	// Store incompressible chunks as-is; the flag tells the read path
	// whether to decompress.
	payload := compressed
	isCompressed := true
	if len(compressed) >= len(plaintext) {
		payload = plaintext
		isCompressed = false
	}

	ciphertext, iv, err := s.cipher.Encrypt(payload)
	if err != nil {
		return nil, err
	}

	return &model.ChunkData{
		Hash:       hash,
		Payload:    ciphertext,
		IV:         iv,
		Compressed: isCompressed,
	}, nil
}

// abortWrite cleans up after a failed write: partially written chunks are
// removed and the snippet is marked FAILED. The original cause is wrapped in
// the returned CorruptedWriteError along with the committed chunk count.
func (s *Service) abortWrite(ctx context.Context, snippetID int64, committed int, cause error) error {
	if err := s.store.DeleteChunksForSnippet(ctx, snippetID); err != nil {
		s.logger.Error("cleanup of partial chunks failed", "snippet", snippetID, "error", err)
	}
	if err := s.store.FailSnippet(ctx, snippetID, s.clock.Now()); err != nil {
		s.logger.Error("marking snippet failed", "snippet", snippetID, "error", err)
	}
	s.logger.Warn("snippet write aborted", "snippet", snippetID, "committed", committed, "error", cause)
	return &CorruptedWriteError{SnippetID: snippetID, Committed: committed, Err: cause}
}

// Get returns an owner's snippet with its reassembled content. Access is
// itself a mutation: the snippet is pushed to the front of the owner's
// recency index.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*model.SnippetContent, error) {
	snippet, err := s.store.GetSnippet(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("loading snippet: %w", err)
	}
	if snippet == nil {
		return nil, ErrNotFound
	}

	content, err := s.assemble(ctx, snippet)
	if err != nil {
		return nil, err
	}

	if err := s.recency.Touch(ctx, ownerID, id); err != nil {
		s.logger.Warn("recency touch failed", "owner", ownerID, "snippet", id, "error", err)
	}

	return &model.SnippetContent{Snippet: *snippet, Content: content}, nil
}

// assemble reverses the write pipeline for one snippet: decrypt each chunk in
// index order, decompress where flagged, concatenate, and validate the result
// against the stored chunk count and total size. Any mismatch is a
// CorruptedSnippetError; partial content is never returned.
func (s *Service) assemble(ctx context.Context, snippet *model.Snippet) ([]byte, error) {
	if snippet.Status != model.StatusCompleted {
		return nil, &CorruptedSnippetError{SnippetID: snippet.ID, Reason: fmt.Sprintf("snippet status is %s", snippet.Status)}
	}

	chunks, err := s.store.GetChunksOrdered(ctx, snippet.ID)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}

	return s.assembleChunks(snippet, chunks)
}

// assembleChunks decrypts, decompresses, and concatenates pre-loaded chunks.
// Split out from assemble so search can reuse it with a batch chunk read.
func (s *Service) assembleChunks(snippet *model.Snippet, chunks []*model.Chunk) ([]byte, error) {
	if len(chunks) != snippet.TotalChunks {
		return nil, &CorruptedSnippetError{
			SnippetID: snippet.ID,
			Reason:    fmt.Sprintf("expected %d chunks, found %d", snippet.TotalChunks, len(chunks)),
		}
	}

	var buf bytes.Buffer
	buf.Grow(int(snippet.TotalSize))
	for i, chunk := range chunks {
		if chunk.ChunkIndex != i {
			return nil, &CorruptedSnippetError{
				SnippetID: snippet.ID,
				Reason:    fmt.Sprintf("missing chunk index %d (found %d)", i, chunk.ChunkIndex),
			}
		}

		payload, err := s.cipher.Decrypt(chunk.Payload, chunk.IV)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of snippet %d: %w", i, snippet.ID, err)
		}

		if chunk.Compressed {
			payload, err = s.codec.Decompress(payload)
			if err != nil {
				return nil, fmt.Errorf("chunk %d of snippet %d: %w", i, snippet.ID, err)
			}
		}

		buf.Write(payload)
	}

	if int64(buf.Len()) != snippet.TotalSize {
		return nil, &CorruptedSnippetError{
			SnippetID: snippet.ID,
			Reason:    fmt.Sprintf("reassembled %d bytes, expected %d", buf.Len(), snippet.TotalSize),
		}
	}

	return buf.Bytes(), nil
}

// ListRecent returns the owner's most recently used snippets, newest first,
// capped at RecencyCap. A cold recency index is initialized from the store's
// most-recent query before listing.
func (s *Service) ListRecent(ctx context.Context, ownerID int64) ([]*model.Snippet, error) {
	ids, err := s.recency.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing recency index: %w", err)
	}

	if len(ids) == 0 {
		recent, err := s.store.ListRecent(ctx, ownerID, RecencyCap)
		if err != nil {
			return nil, fmt.Errorf("rebuilding recency index: %w", err)
		}
		if len(recent) == 0 {
			return nil, nil
		}
		ids = make([]int64, len(recent))
		for i, sn := range recent {
			ids[i] = sn.ID
		}
		if err := s.recency.Initialize(ctx, ownerID, ids); err != nil {
			s.logger.Warn("recency initialize failed", "owner", ownerID, "error", err)
		}
		return recent, nil
	}

	byID, err := s.store.GetSnippetsByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving recent snippets: %w", err)
	}

	// Preserve index order; drop ids whose snippets have since been
	// deleted. The index entry is stale, not an error.
	snippets := make([]*model.Snippet, 0, len(ids))
	for _, id := range ids {
		if sn, ok := byID[id]; ok {
			snippets = append(snippets, sn)
		}
	}
	return snippets, nil
}

// Touch moves an owner's snippet to the front of the recency index without
// reading its content.
func (s *Service) Touch(ctx context.Context, ownerID, id int64) error {
	snippet, err := s.store.GetSnippet(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("loading snippet: %w", err)
	}
	if snippet == nil {
		return ErrNotFound
	}
	if err := s.recency.Touch(ctx, ownerID, id); err != nil {
		return fmt.Errorf("touching recency index: %w", err)
	}
	return nil
}

// Delete soft-deletes an owner's snippet and removes it from the recency
// index. Chunk rows stay in place; physical purge is a housekeeping concern
// outside this service.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.store.MarkDeleted(ctx, ownerID, id, s.clock.Now())
	if err != nil {
		return fmt.Errorf("deleting snippet: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if err := s.recency.Remove(ctx, ownerID, id); err != nil {
		s.logger.Warn("recency remove failed", "owner", ownerID, "snippet", id, "error", err)
	}

	s.logger.Info("snippet deleted", "owner", ownerID, "snippet", id)
	return nil
}
