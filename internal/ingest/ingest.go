// Package ingest fills the book list from catalog searches. It backs the
// seed command and goes through the same book service as the API, so
// ol_key uniqueness is enforced the same way.
package ingest

import (
	"context"
	"time"

	"booklist/internal/book"
	"booklist/internal/catalog"
)

const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run summarises one ingestion.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Queries    int
	Fetched    int
	Added      int
	Duplicates int
	Skipped    int
	Error      string
}

type DraftSource interface {
	Search(ctx context.Context, query string, limit int) ([]catalog.Draft, error)
}

type BookAdder interface {
	Add(ctx context.Context, nb book.NewBook) (book.Book, error)
}
