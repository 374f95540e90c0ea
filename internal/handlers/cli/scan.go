package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/swapwatch/internal/pkg/logger"
	"github.com/gabapcia/swapwatch/internal/swapscan"

	"github.com/urfave/cli/v3"
)

// startScannerCommand returns a CLI command that starts the swap output
// scanner, consuming chain and mempool transaction events and logging every
// swap notification as it arrives.
//
// Usage example:
//
//	swapwatch scan
//
// The process runs indefinitely until it receives an interrupt (SIGINT or SIGTERM).
func startScannerCommand(scanner swapscan.Service) *cli.Command {
	return &cli.Command{
		Name:        "scan",
		Description: "Starts the swap output scanner over confirmed blocks and the mempool.",
		Usage:       "Initializes and runs the scanner. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			notificationCh, err := scanner.Start(ctx)
			if err != nil {
				return err
			}
			defer scanner.Close()

			for {
				select {
				case <-quit:
					return nil
				case notification, ok := <-notificationCh:
					if !ok {
						return nil
					}

					logNotification(ctx, notification)
				}
			}
		},
	}
}

// logNotification writes one structured log line per swap notification.
func logNotification(ctx context.Context, notification swapscan.Notification) {
	switch {
	case notification.Err != nil:
		logger.Error(ctx, "scanner reported a failure", "error", notification.Err)
	case notification.Claim != nil:
		logger.Info(ctx, "claim detected",
			"transactionId", notification.Claim.TxID,
			"network", notification.Claim.Network,
			"outpoint", notification.Claim.Outpoint,
		)
	case notification.Funding != nil:
		logger.Info(ctx, "funding detected",
			"transactionId", notification.Funding.TxID,
			"network", notification.Funding.Network,
			"invoice", notification.Funding.Invoice,
			"tokens", notification.Funding.Tokens,
			"vout", notification.Funding.Vout,
		)
	case notification.Refund != nil:
		logger.Info(ctx, "refund detected",
			"transactionId", notification.Refund.TxID,
			"network", notification.Refund.Network,
			"outpoint", notification.Refund.Outpoint,
		)
	}
}
