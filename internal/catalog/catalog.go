// Package catalog looks books up in Open Library and turns the hits into
// drafts that can be posted to the book list as-is.
package catalog

import (
	"context"
	"errors"

	"booklist/internal/platform/openlibrary"
)

var ErrEmptyQuery = errors.New("search query is required")

const (
	DefaultLimit = 8
	MaxLimit     = 20
)

// UnknownAuthor is used when the catalog has no author for a work.
const UnknownAuthor = "Unknown"

// Draft mirrors the body of POST /api/books.
type Draft struct {
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	CoverURL         *string `json:"cover_url"`
	OLKey            string  `json:"ol_key"`
	FirstPublishYear *int    `json:"first_publish_year,omitempty"`
}

// Searcher is the upstream catalog.
type Searcher interface {
	SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
}

func draftFromDoc(doc openlibrary.SearchDoc) Draft {
	d := Draft{
		Title:  doc.Title,
		Author: UnknownAuthor,
		OLKey:  doc.Key,
	}
	if len(doc.AuthorNames) > 0 && doc.AuthorNames[0] != "" {
		d.Author = doc.AuthorNames[0]
	}
	if doc.CoverEditionKey != "" {
		u := openlibrary.CoverURL(doc.CoverEditionKey)
		d.CoverURL = &u
	}
	if doc.FirstPublishYear != 0 {
		y := doc.FirstPublishYear
		d.FirstPublishYear = &y
	}
	return d
}
