package catalog

import (
	"context"
	"fmt"
	"strings"

	"booklist/internal/platform/metrics"
)

type Service struct {
	searcher Searcher
}

func NewService(searcher Searcher) *Service {
	return &Service{searcher: searcher}
}

// Search returns up to limit drafts for query. Hits without a key or title
// are dropped since they cannot be added.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Draft, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	res, err := s.searcher.SearchBooks(ctx, query, limit)
	if err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	metrics.CatalogLookupsTotal.WithLabelValues("ok").Inc()

	drafts := make([]Draft, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if doc.Key == "" || doc.Title == "" {
			continue
		}
		drafts = append(drafts, draftFromDoc(doc))
	}
	return drafts, nil
}
