package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklist/internal/platform/openlibrary"
)

type fakeSearcher struct {
	res       *openlibrary.SearchResponse
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeSearcher) SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.res, f.err
}

func TestService_Search(t *testing.T) {
	searcher := &fakeSearcher{res: &openlibrary.SearchResponse{Docs: []openlibrary.SearchDoc{
		{Key: "/works/OL893415W", Title: "Dune", AuthorNames: []string{"Frank Herbert", "Someone"}, CoverEditionKey: "OL26242482M", FirstPublishYear: 1965},
		{Key: "/works/OL1W", Title: "Anonymous"},
		{Key: "", Title: "No key"},
		{Key: "/works/OL2W", Title: ""},
	}}}
	svc := NewService(searcher)

	drafts, err := svc.Search(context.Background(), "  dune ", 0)
	require.NoError(t, err)
	assert.Equal(t, "dune", searcher.lastQuery)
	assert.Equal(t, DefaultLimit, searcher.lastLimit)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Dune", drafts[0].Title)
	assert.Equal(t, "Frank Herbert", drafts[0].Author)
	assert.Equal(t, "/works/OL893415W", drafts[0].OLKey)
	require.NotNil(t, drafts[0].CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL26242482M-M.jpg", *drafts[0].CoverURL)
	require.NotNil(t, drafts[0].FirstPublishYear)
	assert.Equal(t, 1965, *drafts[0].FirstPublishYear)

	assert.Equal(t, UnknownAuthor, drafts[1].Author)
	assert.Nil(t, drafts[1].CoverURL)
	assert.Nil(t, drafts[1].FirstPublishYear)

	_, err = svc.Search(context.Background(), "dune", 500)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, searcher.lastLimit)
}

func TestHTTPHandler_Search(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(&fakeSearcher{res: &openlibrary.SearchResponse{Docs: []openlibrary.SearchDoc{
			{Key: "/works/OL893415W", Title: "Dune"},
		}}}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=dune&limit=5", nil)

		handler.Search(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var drafts []Draft
		require.NoError(t, json.NewDecoder(w.Body).Decode(&drafts))
		require.Len(t, drafts, 1)
		assert.Equal(t, "/works/OL893415W", drafts[0].OLKey)
	})

	t.Run("missing query", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(&fakeSearcher{}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalog/search", nil)

		handler.Search(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream error", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(&fakeSearcher{err: errors.New("boom")}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=dune", nil)

		handler.Search(w, r)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
