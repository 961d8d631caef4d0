package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"poolpower-site/internal/buildlog"
	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/logger"
	"poolpower-site/internal/source"
	"poolpower-site/internal/store"
	"poolpower-site/internal/types"
)

// initializeSystem loads .env and sets up the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func shutdownSystem() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = logger.Shutdown(ctx)
}

// loadConfig loads the site configuration from SITE_CONFIG or config.yaml
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := store.ConfigPath()
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	if cfg.Render.EscapeHTML {
		logger.Info(ctx, "HTML escaping of deal fields is enabled")
	}
	return cfg, nil
}

// compressOldBuildLogs gzips build log files past the retention window
func compressOldBuildLogs(ctx context.Context, cfg *store.Config) {
	if cfg.BuildLog.RetentionDays <= 0 {
		return
	}
	if err := buildlog.CompressOlder(cfg.BuildLog.Dir, cfg.BuildLog.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old build logs", "dir", cfg.BuildLog.Dir, "error", err)
	}
}

// initializeSource builds the configured record source. Credential problems
// are reported apart from other setup failures.
func initializeSource(ctx context.Context, cfg *store.Config) (interfaces.RecordSource, error) {
	src, err := source.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, types.ErrCredentials) {
			logger.ErrorWithErr(ctx, "Authentication failed, check the service account key", err,
				"credentials_file", cfg.Source.CredentialsFile,
			)
		} else {
			logger.ErrorWithErr(ctx, "Failed to create record source", err, "kind", cfg.Source.Kind)
		}
		return nil, err
	}
	logger.Info(ctx, "Record source ready", "source", src.Name(), "resource", cfg.Resource())
	return src, nil
}
