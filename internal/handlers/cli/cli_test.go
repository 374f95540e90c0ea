package cli

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/pkg/logger"
	"github.com/gabapcia/swapwatch/internal/swapscan"

	"github.com/stretchr/testify/assert"
)

func init() {
	logger.Init(logger.WithLevel("error"))
}

// fakeWalker adapts a function to the blockwalk.Service interface.
type fakeWalker func(ctx context.Context, startHash string) ([]blockwalk.Block, error)

func (f fakeWalker) WalkRecentBlocks(ctx context.Context, startHash string) ([]blockwalk.Block, error) {
	return f(ctx, startHash)
}

// fakeScanner implements swapscan.Service with canned responses.
type fakeScanner struct {
	notificationCh chan swapscan.Notification
	startErr       error
	closed         bool
}

func (f *fakeScanner) Start(ctx context.Context) (<-chan swapscan.Notification, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.notificationCh, nil
}

func (f *fakeScanner) Close() {
	f.closed = true
}

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	t.Run("help runs without error", func(t *testing.T) {
		os.Args = []string{"swapwatch", "--help"}

		err := Run(t.Context(), fakeWalker(nil), &fakeScanner{})

		assert.NoError(t, err)
	})

	t.Run("recent-blocks walks from the provided hash", func(t *testing.T) {
		var gotHash string
		walker := fakeWalker(func(_ context.Context, startHash string) ([]blockwalk.Block, error) {
			gotHash = startHash
			return []blockwalk.Block{{Hash: startHash, TransactionIDs: []string{"tx1"}}}, nil
		})

		os.Args = []string{"swapwatch", "recent-blocks", "--start-hash", "h0"}

		err := Run(t.Context(), walker, &fakeScanner{})

		assert.NoError(t, err)
		assert.Equal(t, "h0", gotHash)
	})

	t.Run("recent-blocks requires the start hash", func(t *testing.T) {
		os.Args = []string{"swapwatch", "recent-blocks"}

		err := Run(t.Context(), fakeWalker(nil), &fakeScanner{})

		assert.Error(t, err)
	})

	t.Run("recent-blocks surfaces walker failures", func(t *testing.T) {
		walkErr := errors.New("block not found")
		walker := fakeWalker(func(_ context.Context, _ string) ([]blockwalk.Block, error) {
			return nil, walkErr
		})

		os.Args = []string{"swapwatch", "recent-blocks", "--start-hash", "h0"}

		err := Run(t.Context(), walker, &fakeScanner{})

		assert.ErrorIs(t, err, walkErr)
	})

	t.Run("scan surfaces startup failures", func(t *testing.T) {
		scanner := &fakeScanner{startErr: assert.AnError}

		os.Args = []string{"swapwatch", "scan"}

		err := Run(t.Context(), fakeWalker(nil), scanner)

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("scan drains notifications and stops when the channel closes", func(t *testing.T) {
		notificationCh := make(chan swapscan.Notification, 2)
		notificationCh <- swapscan.Notification{Claim: &swapscan.ClaimNotification{TxID: "tx1", Network: "testnet"}}
		notificationCh <- swapscan.Notification{Err: assert.AnError}
		close(notificationCh)

		scanner := &fakeScanner{notificationCh: notificationCh}

		os.Args = []string{"swapwatch", "scan"}

		err := Run(t.Context(), fakeWalker(nil), scanner)

		assert.NoError(t, err)
		assert.True(t, scanner.closed, "scanner should be closed on shutdown")
	})
}
