// Package config loads the runtime configuration from environment
// variables. Every variable is prefixed with "SWAPWATCH_".
package config

import (
	"github.com/gabapcia/swapwatch/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the application needs at startup.
type Config struct {
	// LogLevel sets the minimum severity emitted by the logger.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Network is the blockchain network every component is bound to
	// (e.g. "bitcoin", "testnet").
	Network string `envconfig:"NETWORK" validate:"required"`

	// ChainRPCEndpoint is the bitcoind JSON-RPC endpoint used for block
	// and mempool polling.
	ChainRPCEndpoint string `envconfig:"CHAIN_RPC_ENDPOINT" validate:"required,url"`

	// SwapDetectorEndpoint is the HTTP endpoint of the external swap
	// classifier service.
	SwapDetectorEndpoint string `envconfig:"SWAP_DETECTOR_ENDPOINT" validate:"required,url"`

	// Redis connection settings for the block cache.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	// TelemetryEnabled turns on the OpenTelemetry exporters.
	TelemetryEnabled bool `envconfig:"TELEMETRY_ENABLED" default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var config Config
	if err := envconfig.Process("swapwatch", &config); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(config); err != nil {
		return Config{}, err
	}

	return config, nil
}
