package main

import (
	"context"
	"log"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/config"
	"github.com/gabapcia/swapwatch/internal/handlers/cli"
	"github.com/gabapcia/swapwatch/internal/infra/blockchain/bitcoind"
	"github.com/gabapcia/swapwatch/internal/infra/storage/redis"
	"github.com/gabapcia/swapwatch/internal/infra/swapdetect"
	"github.com/gabapcia/swapwatch/internal/pkg/logger"
	"github.com/gabapcia/swapwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/swapwatch/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/swapwatch/internal/pkg/transport/http"
	"github.com/gabapcia/swapwatch/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/swapwatch/internal/swapscan"
)

const serviceName = "swapwatch"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			log.Fatalf("failed to initialize telemetry: %v", err)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	cache, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", "error", err)
	}
	defer cache.Close()

	chainConn := jsonrpc.NewClient(transporthttp.NewClient().StandardClient(), cfg.ChainRPCEndpoint)
	chainClient := bitcoind.NewClient(chainConn)

	walker, err := blockwalk.New(cfg.Network, chainClient, cache)
	if err != nil {
		logger.Fatal(ctx, "failed to build the block walker", "error", err)
	}

	detector := swapdetect.NewClient(transporthttp.NewClient(), cfg.SwapDetectorEndpoint, cfg.Network)

	scanner, err := swapscan.New(cfg.Network, detector,
		bitcoind.NewChainListener(chainConn, walker, bitcoind.WithChainRetry(retry.New())),
		bitcoind.NewMempoolListener(chainConn, bitcoind.WithMempoolRetry(retry.New())),
	)
	if err != nil {
		logger.Fatal(ctx, "failed to build the swap scanner", "error", err)
	}

	if err := cli.Run(ctx, walker, scanner); err != nil {
		logger.Fatal(ctx, "execution failed", "error", err)
	}
}
