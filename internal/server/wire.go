//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"

	"github.com/mchugh/liveblog/internal/adapters/blob"
	"github.com/mchugh/liveblog/internal/adapters/rest"
	"github.com/mchugh/liveblog/internal/content/application"
	"github.com/mchugh/liveblog/internal/content/ports"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
	"github.com/mchugh/liveblog/internal/platform/logger"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,

		// Main logger
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Database (nil pool with the in-memory backend)
		ConnectDatabase,

		// Storage
		provideContentRepository,
		provideAssetStore,
		wire.Bind(new(ports.AssetStore), new(*blob.FileStore)),

		// Platform services
		eventbus.ProviderSet,
		provideHub,

		// Application services
		application.ProviderSet,

		// REST handlers
		rest.ProviderSet,
		provideVersion,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
