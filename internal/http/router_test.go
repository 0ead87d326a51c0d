package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklist/internal/book"
	"booklist/internal/catalog"
	"booklist/internal/httpx"
	"booklist/internal/platform/openlibrary"
	"booklist/internal/testutil"
)

const frontendOrigin = "http://localhost:3000"

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeSearcher struct {
	resp *openlibrary.SearchResponse
	err  error
}

func (f fakeSearcher) SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error) {
	return f.resp, f.err
}

type routerFixture struct {
	handler http.Handler
	repo    *book.MockRepository
}

func newRouterFixture(t *testing.T, db Pinger) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)

	limiter := httpx.NewRateLimitMiddleware(10, false)
	t.Cleanup(limiter.Stop)

	h := NewRouter(RouterDeps{
		Log:           zerolog.Nop(),
		Auth:          testutil.NewTestAuthService(),
		Books:         book.NewService(repo),
		Catalog:       catalog.NewService(fakeSearcher{resp: &openlibrary.SearchResponse{}}),
		DB:            db,
		VerifyLimiter: limiter,
		FrontendURL:   frontendOrigin,
	})
	return routerFixture{handler: h, repo: repo}
}

func (f routerFixture) do(r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func strPtr(s string) *string { return &s }

func TestRouter_VerifyThenAddThenList(t *testing.T) {
	f := newRouterFixture(t, nil)

	resp := f.do(testutil.NewRequest(http.MethodPost, "/api/verify", map[string]string{"passcode": testutil.TestPasscode}))
	require.Equal(t, http.StatusOK, resp.Code)

	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, resp.Decode(&tok))
	require.NotEmpty(t, tok.Token)

	added := book.Book{
		ID:      "3f1c2a8e-5b7d-4e9a-9c1f-0a2b3c4d5e6f",
		Title:   "Dune",
		Author:  strPtr("Frank Herbert"),
		OLKey:   strPtr("/works/OL893415W"),
		AddedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.repo.EXPECT().Create(gomock.Any(), book.NewBook{
		Title:  "Dune",
		Author: strPtr("Frank Herbert"),
		OLKey:  strPtr("/works/OL893415W"),
	}).Return(added, nil)

	resp = f.do(testutil.NewRequestWithAuth(http.MethodPost, "/api/books", map[string]any{
		"title":  "Dune",
		"author": "Frank Herbert",
		"ol_key": "/works/OL893415W",
	}, tok.Token))
	require.Equal(t, http.StatusCreated, resp.Code, string(resp.Raw))

	var created book.Book
	require.NoError(t, resp.Decode(&created))
	assert.Equal(t, added.ID, created.ID)

	f.repo.EXPECT().List(gomock.Any()).Return([]book.Book{added}, nil)

	resp = f.do(testutil.NewRequest(http.MethodGet, "/api/books", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var list []book.Book
	require.NoError(t, resp.Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Dune", list[0].Title)
}

func TestRouter_ListEmptyIsArray(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, nil)

	resp := f.do(testutil.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "[]", strings.TrimSpace(string(resp.Raw)))
}

func TestRouter_WrongPasscode(t *testing.T) {
	f := newRouterFixture(t, nil)

	for _, passcode := range []string{"nope", "", testutil.TestPasscode + "x"} {
		resp := f.do(testutil.NewRequest(http.MethodPost, "/api/verify", map[string]string{"passcode": passcode}))

		assert.Equal(t, http.StatusUnauthorized, resp.Code, "passcode %q", passcode)
		assert.NotContains(t, string(resp.Raw), "token\":")
	}
}

func TestRouter_MutationsRequireAuth(t *testing.T) {
	f := newRouterFixture(t, nil)
	body := map[string]string{"title": "Dune"}

	tests := []struct {
		name  string
		token string
	}{
		{"absent", ""},
		{"expired", testutil.GenerateExpiredToken()},
		{"garbage", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(testutil.NewRequestWithAuth(http.MethodPost, "/api/books", body, tt.token))
			assert.Equal(t, http.StatusUnauthorized, resp.Code)

			resp = f.do(testutil.NewRequestWithAuth(http.MethodDelete, "/api/books/3f1c2a8e-5b7d-4e9a-9c1f-0a2b3c4d5e6f", nil, tt.token))
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestRouter_AddDuplicate(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(book.Book{}, book.ErrConflict)

	resp := f.do(testutil.NewRequestWithAuth(http.MethodPost, "/api/books",
		map[string]string{"title": "Dune", "ol_key": "/works/OL893415W"}, testutil.GenerateTestToken()))

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRouter_Delete(t *testing.T) {
	f := newRouterFixture(t, nil)
	token := testutil.GenerateTestToken()
	id := "3f1c2a8e-5b7d-4e9a-9c1f-0a2b3c4d5e6f"

	gomock.InOrder(
		f.repo.EXPECT().Delete(gomock.Any(), id).Return(nil),
		f.repo.EXPECT().Delete(gomock.Any(), id).Return(book.ErrNotFound),
	)

	resp := f.do(testutil.NewRequestWithAuth(http.MethodDelete, "/api/books/"+id, nil, token))
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Raw)

	resp = f.do(testutil.NewRequestWithAuth(http.MethodDelete, "/api/books/"+id, nil, token))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do(testutil.NewRequestWithAuth(http.MethodDelete, "/api/books/not-a-uuid", nil, token))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouter_VerifyRateLimited(t *testing.T) {
	f := newRouterFixture(t, nil)

	for i := 0; i < 10; i++ {
		resp := f.do(testutil.NewRequest(http.MethodPost, "/api/verify", map[string]string{"passcode": "wrong"}))
		require.Equal(t, http.StatusUnauthorized, resp.Code, "request %d", i+1)
	}

	resp := f.do(testutil.NewRequest(http.MethodPost, "/api/verify", map[string]string{"passcode": testutil.TestPasscode}))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// other routes are not limited
	f.repo.EXPECT().List(gomock.Any()).Return(nil, nil)
	resp = f.do(testutil.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newRouterFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", frontendOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp := f.do(req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, frontendOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	f := newRouterFixture(t, nil)

	resp := f.do(testutil.NewRequest(http.MethodPut, "/api/books", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestRouter_Probes(t *testing.T) {
	f := newRouterFixture(t, fakePinger{})

	resp := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	down := newRouterFixture(t, fakePinger{err: errors.New("connection refused")})
	resp = down.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.do(testutil.NewRequest(http.MethodGet, "/api/books", nil))

	resp := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, string(resp.Raw), "booklist_http_requests_total")
}

func TestRouter_CatalogSearch(t *testing.T) {
	f := newRouterFixture(t, nil)

	resp := f.do(httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=dune", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "[]", strings.TrimSpace(string(resp.Raw)))

	resp = f.do(httptest.NewRequest(http.MethodGet, "/api/catalog/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
