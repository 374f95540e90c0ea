package config

import (
	"testing"

	"github.com/gabapcia/swapwatch/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Setenv("SWAPWATCH_NETWORK", "testnet")
		t.Setenv("SWAPWATCH_CHAIN_RPC_ENDPOINT", "http://localhost:18332")
		t.Setenv("SWAPWATCH_SWAP_DETECTOR_ENDPOINT", "http://localhost:9090/detect")
	}

	t.Run("loads a full configuration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SWAPWATCH_LOG_LEVEL", "debug")
		t.Setenv("SWAPWATCH_REDIS_ADDR", "redis:6379")
		t.Setenv("SWAPWATCH_REDIS_PASSWORD", "secret")
		t.Setenv("SWAPWATCH_REDIS_DB", "3")
		t.Setenv("SWAPWATCH_TELEMETRY_ENABLED", "true")

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "testnet", config.Network)
		assert.Equal(t, "http://localhost:18332", config.ChainRPCEndpoint)
		assert.Equal(t, "http://localhost:9090/detect", config.SwapDetectorEndpoint)
		assert.Equal(t, "redis:6379", config.RedisAddr)
		assert.Equal(t, "secret", config.RedisPassword)
		assert.Equal(t, 3, config.RedisDB)
		assert.True(t, config.TelemetryEnabled)
	})

	t.Run("applies defaults", func(t *testing.T) {
		setRequired(t)

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, "localhost:6379", config.RedisAddr)
		assert.False(t, config.TelemetryEnabled)
	})

	t.Run("fails when the network is missing", func(t *testing.T) {
		t.Setenv("SWAPWATCH_NETWORK", "")
		t.Setenv("SWAPWATCH_CHAIN_RPC_ENDPOINT", "http://localhost:18332")
		t.Setenv("SWAPWATCH_SWAP_DETECTOR_ENDPOINT", "http://localhost:9090/detect")

		_, err := Load()

		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("fails when an endpoint is not a URL", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SWAPWATCH_CHAIN_RPC_ENDPOINT", "not a url")

		_, err := Load()

		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}
