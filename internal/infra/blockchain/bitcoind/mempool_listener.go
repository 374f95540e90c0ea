package bitcoind

import (
	"context"
	"time"

	"github.com/gabapcia/swapwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/swapwatch/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/swapwatch/internal/pkg/types"
	"github.com/gabapcia/swapwatch/internal/pkg/x/chflow"
	"github.com/gabapcia/swapwatch/internal/swapscan"
)

const (
	// defaultMempoolPollInterval is how often the mempool is re-snapshotted.
	defaultMempoolPollInterval = 10 * time.Second

	// mempoolEventChannelBufferSize absorbs a burst of newly seen ids
	// without blocking the poll loop.
	mempoolEventChannelBufferSize = 512
)

// MempoolListener emits transaction ids as they appear in the node's
// mempool. It diffs successive getrawmempool snapshots, so ids that leave
// and re-enter the mempool are reported again; the scanner does not
// deduplicate.
type MempoolListener struct {
	client *client

	retry        retry.Retry
	pollInterval time.Duration
}

var _ swapscan.TransactionListener = (*MempoolListener)(nil)

// MempoolListenerOption customizes a MempoolListener.
type MempoolListenerOption func(*MempoolListener)

// WithMempoolPollInterval overrides the mempool polling interval.
func WithMempoolPollInterval(d time.Duration) MempoolListenerOption {
	return func(l *MempoolListener) {
		l.pollInterval = d
	}
}

// WithMempoolRetry wraps mempool snapshots with the given retry policy.
func WithMempoolRetry(r retry.Retry) MempoolListenerOption {
	return func(l *MempoolListener) {
		l.retry = r
	}
}

// NewMempoolListener builds a listener over the given node connection.
func NewMempoolListener(conn jsonrpc.Client, opts ...MempoolListenerOption) *MempoolListener {
	l := &MempoolListener{
		client:       &client{conn: conn},
		pollInterval: defaultMempoolPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MempoolListener) execute(ctx context.Context, op func() error) error {
	if l.retry == nil {
		return op()
	}
	return l.retry.Execute(ctx, op)
}

// pollMempool snapshots the mempool once, emits ids absent from the
// previous snapshot, and returns the new snapshot. On failure the previous
// snapshot is kept and an error event is emitted.
func (l *MempoolListener) pollMempool(ctx context.Context, seen types.Set[string], eventsCh chan<- swapscan.TransactionEvent) types.Set[string] {
	var txIDs []string
	err := l.execute(ctx, func() error {
		var err error
		txIDs, err = l.client.getRawMempool(ctx)
		return err
	})
	if err != nil {
		chflow.Send(ctx, eventsCh, swapscan.TransactionEvent{Err: err})
		return seen
	}

	next := types.NewSet(txIDs...)
	for _, txID := range txIDs {
		if seen.Has(txID) {
			continue
		}

		if !chflow.Send(ctx, eventsCh, swapscan.TransactionEvent{TxID: txID}) {
			return seen
		}
	}

	return next
}

// Listen implements swapscan.TransactionListener. The initial snapshot is
// taken synchronously and only seeds the diff: transactions already pending
// at startup are not replayed.
func (l *MempoolListener) Listen(ctx context.Context) (<-chan swapscan.TransactionEvent, error) {
	snapshot, err := l.client.getRawMempool(ctx)
	if err != nil {
		return nil, err
	}

	seen := types.NewSet(snapshot...)

	eventsCh := make(chan swapscan.TransactionEvent, mempoolEventChannelBufferSize)
	go func() {
		defer close(eventsCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.pollInterval):
				seen = l.pollMempool(ctx, seen, eventsCh)
			}
		}
	}()

	return eventsCh, nil
}
