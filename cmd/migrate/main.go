package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"booklist/internal/config"
	"booklist/internal/platform/database"
	"booklist/internal/platform/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadEnvFiles()
	cfg, err := loadConfig(ctx, envconfig.OsLookuper())
	if err != nil {
		logger.New(logger.Options{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		if err := database.CreateMigration(cfg.Dir, *name); err != nil {
			log.Fatal().Err(err).Msg("create migration")
		}
		log.Info().Str("dir", cfg.Dir).Str("name", *name).Msg("migration created")
		return
	}

	pool, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	switch *command {
	case "up":
		err = database.Migrate(ctx, pool)
	case "down":
		err = database.Rollback(ctx, pool)
	case "status":
		err = database.Status(ctx, pool)
	default:
		log.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("migration failed")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("command", *command).Msg("migrations done")
}
