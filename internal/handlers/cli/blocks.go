package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/gabapcia/swapwatch/internal/blockwalk"

	"github.com/urfave/cli/v3"
)

// walkRecentBlocksCommand returns a CLI command that walks the most recent
// blocks backward from a starting hash and prints them as JSON.
//
// Usage example:
//
//	swapwatch recent-blocks --start-hash 0000...abcd
func walkRecentBlocksCommand(walker blockwalk.Service) *cli.Command {
	return &cli.Command{
		Name:        "recent-blocks",
		Description: "Walks up to the last ten blocks starting from the given hash.",
		Usage:       "Fetches recent blocks, newest first. Must provide the starting block hash.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "start-hash",
				Usage:    "Block hash to start walking backward from",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			blocks, err := walker.WalkRecentBlocks(ctx, c.String("start-hash"))
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(blocks)
		},
	}
}
