package server

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"

	"github.com/mchugh/liveblog/internal/adapters/blob"
	"github.com/mchugh/liveblog/internal/adapters/memory"
	adapterpg "github.com/mchugh/liveblog/internal/adapters/postgres"
	"github.com/mchugh/liveblog/internal/content/ports"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
	"github.com/mchugh/liveblog/internal/platform/logger"
	"github.com/mchugh/liveblog/internal/realtime"
)

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideContentRepository selects the repository implementation for the
// configured storage backend.
func provideContentRepository(config Config, pool *pgxpool.Pool) ports.ContentRepository {
	if config.StorageBackend == StorageBackendPostgres {
		return adapterpg.NewContentRepository(pool)
	}
	return memory.NewContentRepository()
}

// provideAssetStore creates the on-disk blob store for asset data
func provideAssetStore(config Config, log logger.Logger) (*blob.FileStore, error) {
	return blob.NewFileStore(afero.NewOsFs(), config.MediaDir, config.MediaBaseURL, log)
}

// provideHub creates the broadcast hub and bridges domain events onto it
func provideHub(ctx context.Context, bus *eventbus.Bus, log logger.Logger) *realtime.Hub {
	hub := realtime.NewHub(log)
	realtime.AttachHub(bus, hub)
	log.Debug(ctx, "broadcast hub attached to event bus")
	return hub
}
