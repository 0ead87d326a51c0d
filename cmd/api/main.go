package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"booklist/internal/auth"
	"booklist/internal/book"
	"booklist/internal/catalog"
	"booklist/internal/config"
	apphttp "booklist/internal/http"
	"booklist/internal/httpx"
	"booklist/internal/platform/database"
	"booklist/internal/platform/logger"
	"booklist/internal/platform/openlibrary"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.New(logger.Options{}).Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	dbPool, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info().Str("dsn", database.RedactDSN(cfg.Database.URL)).Msg("database connection OK")

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	authService := auth.NewService(cfg.Auth.Passcode, cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))
	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.Database.Timeout))

	olClient := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, 2)
	catalogService := catalog.NewService(olClient)

	verifyLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimit.VerifyPerMinute, cfg.RateLimit.TrustProxyHeaders)
	defer verifyLimiter.Stop()

	router := apphttp.NewRouter(apphttp.RouterDeps{
		Log:           log,
		Auth:          authService,
		Books:         bookService,
		Catalog:       catalogService,
		DB:            dbPool,
		VerifyLimiter: verifyLimiter,
		FrontendURL:   cfg.FrontendURL,
		EnableHSTS:    cfg.EnableHSTS,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("frontend", cfg.FrontendURL).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
