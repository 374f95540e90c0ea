package cli

import (
	"context"
	"os"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/swapscan"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the swapwatch CLI application.
//
// It registers all available commands, including:
//
//   - `scan`: Starts the swap output scanner over chain and mempool events.
//   - `recent-blocks`: Walks the most recent blocks from a starting hash.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - walker: The blockwalk service implementation used by the recent-blocks command.
//   - scanner: The swapscan service implementation used by the scan command.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, walker blockwalk.Service, scanner swapscan.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "swapwatch",
		Description:           "Command-line interface for running the Swapwatch scanner and block tooling.",
		Usage:                 "swapwatch [command] [flags]",
		Commands: []*cli.Command{
			startScannerCommand(scanner),
			walkRecentBlocksCommand(walker),
		},
	}

	return app.Run(ctx, os.Args)
}
