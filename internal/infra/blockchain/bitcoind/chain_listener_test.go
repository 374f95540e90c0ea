package bitcoind

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/swapwatch/internal/swapscan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkerFunc adapts a function to the blockwalk.Service interface.
type walkerFunc func(ctx context.Context, startHash string) ([]blockwalk.Block, error)

func (f walkerFunc) WalkRecentBlocks(ctx context.Context, startHash string) ([]blockwalk.Block, error) {
	return f(ctx, startHash)
}

// tipSequence serves getbestblockhash from a list of responses, repeating
// the last one once exhausted.
type tipSequence struct {
	mu   sync.Mutex
	tips []string
	idx  int
}

func (s *tipSequence) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := s.tips[s.idx]
	if s.idx+1 < len(s.tips) {
		s.idx++
	}
	return tip
}

func (s *tipSequence) conn(t *testing.T) fetchFunc {
	return func(_ context.Context, method string, _ ...any) (json.RawMessage, error) {
		require.Equal(t, "getbestblockhash", method)
		return json.Marshal(s.next())
	}
}

// receiveEvent waits for the next transaction event or fails the test.
func receiveEvent(t *testing.T, ch <-chan swapscan.TransactionEvent) swapscan.TransactionEvent {
	t.Helper()

	select {
	case event, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a transaction event")
		return swapscan.TransactionEvent{}
	}
}

func TestChainListener_Listen(t *testing.T) {
	t.Run("fails when the initial tip lookup fails", func(t *testing.T) {
		connErr := errors.New("connection refused")
		conn := fetchFunc(func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
			return nil, connErr
		})

		listener := NewChainListener(conn, walkerFunc(func(_ context.Context, _ string) ([]blockwalk.Block, error) {
			return nil, nil
		}))

		eventsCh, err := listener.Listen(t.Context())

		assert.ErrorIs(t, err, connErr)
		assert.Nil(t, eventsCh)
	})

	t.Run("emits transactions of new blocks oldest block first", func(t *testing.T) {
		tips := &tipSequence{tips: []string{"h2", "h0"}}

		chain := map[string]blockwalk.Block{
			"h0": {Hash: "h0", PreviousBlockHash: "h1", TransactionIDs: []string{"tx-c"}},
			"h1": {Hash: "h1", PreviousBlockHash: "h2", TransactionIDs: []string{"tx-a", "tx-b"}},
			"h2": {Hash: "h2", PreviousBlockHash: "h3", TransactionIDs: []string{"tx-old"}},
		}
		walker := walkerFunc(func(_ context.Context, startHash string) ([]blockwalk.Block, error) {
			require.Equal(t, "h0", startHash)
			return []blockwalk.Block{chain["h0"], chain["h1"], chain["h2"]}, nil
		})

		listener := NewChainListener(tips.conn(t), walker, WithChainPollInterval(5*time.Millisecond))

		eventsCh, err := listener.Listen(t.Context())
		require.NoError(t, err)

		got := []string{
			receiveEvent(t, eventsCh).TxID,
			receiveEvent(t, eventsCh).TxID,
			receiveEvent(t, eventsCh).TxID,
		}

		// h1 is older than h0, so its transactions come first; tx-old sits
		// below the previous tip and is never replayed.
		assert.Equal(t, []string{"tx-a", "tx-b", "tx-c"}, got)
	})

	t.Run("an unchanged tip emits nothing", func(t *testing.T) {
		tips := &tipSequence{tips: []string{"h0"}}

		var walked bool
		var mu sync.Mutex
		walker := walkerFunc(func(_ context.Context, _ string) ([]blockwalk.Block, error) {
			mu.Lock()
			defer mu.Unlock()

			walked = true
			return nil, nil
		})

		listener := NewChainListener(tips.conn(t), walker, WithChainPollInterval(5*time.Millisecond))

		eventsCh, err := listener.Listen(t.Context())
		require.NoError(t, err)

		select {
		case event := <-eventsCh:
			t.Fatalf("unexpected event: %+v", event)
		case <-time.After(50 * time.Millisecond):
		}

		mu.Lock()
		defer mu.Unlock()
		assert.False(t, walked, "walker should not be invoked when the tip is unchanged")
	})

	t.Run("walk failures surface as error events and are retried next poll", func(t *testing.T) {
		tips := &tipSequence{tips: []string{"h1", "h0"}}

		walkErr := errors.New("cache backend down")
		var calls int
		var mu sync.Mutex
		walker := walkerFunc(func(_ context.Context, _ string) ([]blockwalk.Block, error) {
			mu.Lock()
			defer mu.Unlock()

			calls++
			if calls == 1 {
				return nil, walkErr
			}
			return []blockwalk.Block{
				{Hash: "h0", PreviousBlockHash: "h1", TransactionIDs: []string{"tx-a"}},
				{Hash: "h1", PreviousBlockHash: "h2", TransactionIDs: []string{"tx-old"}},
			}, nil
		})

		listener := NewChainListener(tips.conn(t), walker, WithChainPollInterval(5*time.Millisecond))

		eventsCh, err := listener.Listen(t.Context())
		require.NoError(t, err)

		failed := receiveEvent(t, eventsCh)
		assert.ErrorIs(t, failed.Err, walkErr)

		// The tip was not advanced, so the next poll walks the same range.
		recovered := receiveEvent(t, eventsCh)
		assert.Equal(t, "tx-a", recovered.TxID)
	})

	t.Run("a configured retry policy absorbs transient tip failures", func(t *testing.T) {
		connErr := errors.New("connection reset")

		var calls int
		var mu sync.Mutex
		conn := fetchFunc(func(_ context.Context, method string, _ ...any) (json.RawMessage, error) {
			require.Equal(t, "getbestblockhash", method)

			mu.Lock()
			defer mu.Unlock()

			calls++
			switch calls {
			case 1:
				return json.Marshal("h1")
			case 2:
				return nil, connErr
			default:
				return json.Marshal("h0")
			}
		})

		walker := walkerFunc(func(_ context.Context, startHash string) ([]blockwalk.Block, error) {
			require.Equal(t, "h0", startHash)
			return []blockwalk.Block{
				{Hash: "h0", PreviousBlockHash: "h1", TransactionIDs: []string{"tx-a"}},
			}, nil
		})

		policy := retry.New(
			retry.WithAttempts(2),
			retry.WithDelay(time.Millisecond),
			retry.WithMaxDelay(time.Millisecond),
		)
		listener := NewChainListener(conn, walker,
			WithChainPollInterval(5*time.Millisecond),
			WithChainRetry(policy),
		)

		eventsCh, err := listener.Listen(t.Context())
		require.NoError(t, err)

		// The failed first attempt is retried within the same poll cycle, so
		// no error event reaches the stream.
		event := receiveEvent(t, eventsCh)
		assert.NoError(t, event.Err)
		assert.Equal(t, "tx-a", event.TxID)
	})

	t.Run("closes the event channel when the context ends", func(t *testing.T) {
		tips := &tipSequence{tips: []string{"h0"}}

		ctx, cancel := context.WithCancel(t.Context())
		listener := NewChainListener(tips.conn(t), walkerFunc(func(_ context.Context, _ string) ([]blockwalk.Block, error) {
			return nil, nil
		}), WithChainPollInterval(5*time.Millisecond))

		eventsCh, err := listener.Listen(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-eventsCh:
			assert.False(t, ok, "channel should be closed after cancellation")
		case <-time.After(time.Second):
			t.Fatal("event channel was not closed")
		}
	})
}
