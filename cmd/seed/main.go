package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"booklist/internal/book"
	"booklist/internal/catalog"
	"booklist/internal/config"
	"booklist/internal/ingest"
	"booklist/internal/platform/database"
	"booklist/internal/platform/logger"
	"booklist/internal/platform/openlibrary"
)

type seedConfig struct {
	Database    config.DatabaseConfig
	OpenLibrary config.OpenLibraryConfig
	Log         config.LogConfig
}

func main() {
	var (
		queries  = flag.String("queries", "dune,the hobbit,foundation", "Comma separated catalog searches")
		perQuery = flag.Int("per-query", catalog.DefaultLimit, "Books to add per search")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadEnvFiles()
	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.New(logger.Options{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	ctx = log.WithContext(ctx)

	pool, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	olClient := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, 3)
	svc := ingest.NewService(
		catalog.NewService(olClient),
		book.NewService(book.NewPostgresRepo(pool, cfg.Database.Timeout)),
		ingest.Config{Queries: splitQueries(*queries), PerQuery: *perQuery},
	)

	run, err := svc.Run(ctx)
	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}
	event.
		Str("status", run.Status).
		Int("queries", run.Queries).
		Int("fetched", run.Fetched).
		Int("added", run.Added).
		Int("duplicates", run.Duplicates).
		Int("skipped", run.Skipped).
		Dur("took", run.FinishedAt.Sub(run.StartedAt)).
		Msg("seed finished")
	if err != nil {
		pool.Close()
		os.Exit(1)
	}
}

func splitQueries(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
