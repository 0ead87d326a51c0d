package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrConflict is returned when another book already has the same ol_key.
	ErrConflict = errors.New("book with this ol_key already exists")
	// ErrInvalid is returned when a new book has no title.
	ErrInvalid = errors.New("book title is required")
)

// Book is an entry of the shared list. Books are never updated.
type Book struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Author   *string   `json:"author"`
	CoverURL *string   `json:"cover_url"`
	OLKey    *string   `json:"ol_key"`
	AddedAt  time.Time `json:"added_at"`
}

// NewBook holds the caller-supplied fields of a book about to be added.
type NewBook struct {
	Title    string
	Author   *string
	CoverURL *string
	OLKey    *string
}

// Normalize trims every field and turns blank optional fields into nil,
// so an empty ol_key never takes part in the uniqueness check.
func (n NewBook) Normalize() NewBook {
	return NewBook{
		Title:    strings.TrimSpace(n.Title),
		Author:   trimOptional(n.Author),
		CoverURL: trimOptional(n.CoverURL),
		OLKey:    trimOptional(n.OLKey),
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
