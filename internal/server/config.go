package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mchugh/liveblog/internal/platform/logger"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"` // Logging level (debug, info, warn, error)
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	MediaDir       string `mapstructure:"MEDIA_DIR"`      // Directory asset blobs are written to
	MediaBaseURL   string `mapstructure:"MEDIA_BASE_URL"` // URL prefix baked into stored asset URLs
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// Load .env file if it exists (godotenv will find it automatically)
	// It's okay if the file doesn't exist - we'll use environment variables
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", StorageBackendMemory)
	v.SetDefault("DATABASE_URL", "postgresql://localhost:5432/liveblog?sslmode=disable")
	v.SetDefault("MEDIA_DIR", "media")
	v.SetDefault("MEDIA_BASE_URL", "/media")

	// Enable automatic environment variable reading
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"storage_backend", config.StorageBackend,
	)

	switch config.StorageBackend {
	case StorageBackendMemory:
	case StorageBackendPostgres:
		if config.DatabaseURL == "" {
			err := errors.New("DATABASE_URL is required with STORAGE_BACKEND=postgres")
			bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
			return Config{}, err
		}
	default:
		err := fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)",
			config.StorageBackend, StorageBackendMemory, StorageBackendPostgres)
		bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
		return Config{}, err
	}

	return config, nil
}
