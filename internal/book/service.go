package book

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"booklist/internal/platform/metrics"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all books ordered by added_at descending. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Add stores a new book.
func (s *Service) Add(ctx context.Context, nb NewBook) (Book, error) {
	nb = nb.Normalize()
	if nb.Title == "" {
		return Book{}, ErrInvalid
	}

	b, err := s.repo.Create(ctx, nb)
	metrics.BookMutationsTotal.WithLabelValues("add", outcome(err)).Inc()
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes a book. Ids that are not UUIDs cannot exist and report ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		metrics.BookMutationsTotal.WithLabelValues("delete", outcome(ErrNotFound)).Inc()
		return ErrNotFound
	}

	err = s.repo.Delete(ctx, parsed.String())
	metrics.BookMutationsTotal.WithLabelValues("delete", outcome(err)).Inc()
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
