// Package http assembles the API routes and their middleware.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"booklist/internal/auth"
	"booklist/internal/book"
	"booklist/internal/catalog"
	"booklist/internal/httpx"
)

const defaultMaxBodyBytes = 64 << 10

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Log           zerolog.Logger
	Auth          *auth.Service
	Books         *book.Service
	Catalog       *catalog.Service
	DB            Pinger
	VerifyLimiter *httpx.RateLimitMiddleware
	FrontendURL   string
	EnableHSTS    bool
	MaxBodyBytes  int64
}

func NewRouter(d RouterDeps) http.Handler {
	authHandler := auth.NewHTTPHandler(d.Auth)
	bookHandler := book.NewHTTPHandler(d.Books)
	requireAuth := httpx.AuthMiddleware(d.Auth)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	verify := http.Handler(http.HandlerFunc(authHandler.Verify))
	if d.VerifyLimiter != nil {
		verify = d.VerifyLimiter.Middleware(verify)
	}
	router.Handle("POST /api/verify", verify)

	router.HandleFunc("GET /api/books", bookHandler.List)
	router.Handle("POST /api/books", requireAuth(http.HandlerFunc(bookHandler.Add)))
	router.Handle("DELETE /api/books/{id}", requireAuth(http.HandlerFunc(bookHandler.Delete)))

	if d.Catalog != nil {
		catalogHandler := catalog.NewHTTPHandler(d.Catalog)
		router.HandleFunc("GET /api/catalog/search", catalogHandler.Search)
	}

	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return httpx.Chain(router,
		httpx.RequestIDMiddleware(d.Log),
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(d.FrontendURL),
		httpx.SecurityHeadersMiddleware(d.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(maxBody),
	)
}
