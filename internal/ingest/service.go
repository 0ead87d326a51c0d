package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"booklist/internal/book"
	"booklist/internal/catalog"
)

type Config struct {
	Queries  []string
	PerQuery int
}

type Service struct {
	drafts DraftSource
	books  BookAdder
	cfg    Config
	now    func() time.Time
}

func NewService(drafts DraftSource, books BookAdder, cfg Config) *Service {
	if cfg.PerQuery <= 0 {
		cfg.PerQuery = catalog.DefaultLimit
	}
	return &Service{
		drafts: drafts,
		books:  books,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Run searches every configured query and adds the hits. Books whose ol_key
// is already listed count as duplicates; the run stops on the first other
// error.
func (s *Service) Run(ctx context.Context) (run Run, err error) {
	log := zerolog.Ctx(ctx)
	run.StartedAt = s.now()

	defer func() {
		run.FinishedAt = s.now()
		run.Status = StatusCompleted
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		}
	}()

	for _, q := range s.cfg.Queries {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		drafts, err := s.drafts.Search(ctx, q, s.cfg.PerQuery)
		if err != nil {
			if errors.Is(err, catalog.ErrEmptyQuery) {
				continue
			}
			return run, fmt.Errorf("search %q: %w", q, err)
		}
		run.Queries++
		run.Fetched += len(drafts)

		for _, d := range drafts {
			_, err := s.books.Add(ctx, newBookFromDraft(d))
			switch {
			case err == nil:
				run.Added++
			case errors.Is(err, book.ErrConflict):
				run.Duplicates++
			case errors.Is(err, book.ErrInvalid):
				run.Skipped++
			default:
				return run, fmt.Errorf("add %q: %w", d.OLKey, err)
			}
		}
		log.Info().Str("query", q).Int("hits", len(drafts)).Msg("query ingested")
	}

	return run, nil
}

func newBookFromDraft(d catalog.Draft) book.NewBook {
	nb := book.NewBook{
		Title:    d.Title,
		CoverURL: d.CoverURL,
	}
	if d.Author != "" {
		author := d.Author
		nb.Author = &author
	}
	if d.OLKey != "" {
		key := d.OLKey
		nb.OLKey = &key
	}
	return nb
}
