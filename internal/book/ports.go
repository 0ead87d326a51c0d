package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	// List returns every book, newest first.
	List(ctx context.Context) ([]Book, error)
	// Create inserts a book and returns it with its generated id and
	// added_at. A duplicate ol_key yields ErrConflict.
	Create(ctx context.Context, nb NewBook) (Book, error)
	// Delete removes the book with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
