package main

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"booklist/internal/config"
)

type migrateConfig struct {
	Database config.DatabaseConfig
	Log      config.LogConfig

	// Only used by "create"; the other commands run the embedded set.
	Dir string `env:"MIGRATIONS_DIR, default=db/migrations"`
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*migrateConfig, error) {
	var cfg migrateConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
