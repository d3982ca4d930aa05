package snip

import (
	"context"
	"fmt"
	"strings"

	"snipvault/internal/model"
)

// Search returns the owner's live snippets whose content contains query,
// case-insensitively, with their decrypted content attached.
//
// There is no persisted full-text index: content only ever exists as
// plaintext transiently in memory, so every query decrypts and scans all of
// the owner's live snippets. Cost is linear in the owner's total content
// size.
func (s *Service) Search(ctx context.Context, ownerID int64, query string) ([]*model.SnippetContent, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	snippets, err := s.store.ListCompleted(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	if len(snippets) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(snippets))
	for i, sn := range snippets {
		ids[i] = sn.ID
	}
	chunksByID, err := s.store.GetChunksOrderedForMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}

	needle := strings.ToLower(query)
	var matches []*model.SnippetContent
	for _, sn := range snippets {
		content, err := s.assembleChunks(sn, chunksByID[sn.ID])
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(string(content)), needle) {
			matches = append(matches, &model.SnippetContent{Snippet: *sn, Content: content})
		}
	}

	s.logger.Debug("search complete", "owner", ownerID, "scanned", len(snippets), "matched", len(matches))
	return matches, nil
}
