package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchugh/liveblog/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(logger.NewBootstrapLogger())
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.ServerAddress)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, StorageBackendMemory, config.StorageBackend)
	assert.Equal(t, "media", config.MediaDir)
	assert.Equal(t, "/media", config.MediaBaseURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig(logger.NewBootstrapLogger())
	require.NoError(t, err)

	assert.Equal(t, ":9999", config.ServerAddress)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")

	_, err := LoadConfig(logger.NewBootstrapLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}
