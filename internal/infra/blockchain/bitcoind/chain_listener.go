package bitcoind

import (
	"context"
	"time"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/swapwatch/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/swapwatch/internal/pkg/x/chflow"
	"github.com/gabapcia/swapwatch/internal/swapscan"
)

const (
	// defaultChainPollInterval is how often the chain tip is re-checked.
	// Blocks arrive far less often, but a short interval keeps confirmation
	// latency low.
	defaultChainPollInterval = 30 * time.Second

	// chainEventChannelBufferSize absorbs the transaction ids of a full
	// block without blocking the poll loop.
	chainEventChannelBufferSize = 512
)

// ChainListener emits the transaction ids of newly confirmed blocks. It
// polls the node for the best block hash and, on a tip change, resolves the
// new blocks through the cached block walker, so revisited blocks are served
// from cache instead of the node.
type ChainListener struct {
	client *client
	walker blockwalk.Service

	retry        retry.Retry
	pollInterval time.Duration
}

var _ swapscan.TransactionListener = (*ChainListener)(nil)

// ChainListenerOption customizes a ChainListener.
type ChainListenerOption func(*ChainListener)

// WithChainPollInterval overrides the tip polling interval.
func WithChainPollInterval(d time.Duration) ChainListenerOption {
	return func(l *ChainListener) {
		l.pollInterval = d
	}
}

// WithChainRetry wraps tip lookups with the given retry policy. Transient
// failure handling belongs to the listener, not its consumers.
func WithChainRetry(r retry.Retry) ChainListenerOption {
	return func(l *ChainListener) {
		l.retry = r
	}
}

// NewChainListener builds a listener over the given node connection that
// resolves block contents through walker.
func NewChainListener(conn jsonrpc.Client, walker blockwalk.Service, opts ...ChainListenerOption) *ChainListener {
	l := &ChainListener{
		client:       &client{conn: conn},
		walker:       walker,
		pollInterval: defaultChainPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// execute runs op under the configured retry policy, or directly when none
// is set.
func (l *ChainListener) execute(ctx context.Context, op func() error) error {
	if l.retry == nil {
		return op()
	}
	return l.retry.Execute(ctx, op)
}

// pollNewBlocks checks the tip once and emits the transaction ids of every
// block above lastTip, oldest block first. Failures are reported as error
// events and leave lastTip unchanged so the next poll retries the same
// range. It returns the tip to compare against on the next iteration.
func (l *ChainListener) pollNewBlocks(ctx context.Context, lastTip string, eventsCh chan<- swapscan.TransactionEvent) string {
	var tip string
	err := l.execute(ctx, func() error {
		var err error
		tip, err = l.client.getBestBlockHash(ctx)
		return err
	})
	if err != nil {
		chflow.Send(ctx, eventsCh, swapscan.TransactionEvent{Err: err})
		return lastTip
	}

	if tip == lastTip {
		return lastTip
	}

	blocks, err := l.walker.WalkRecentBlocks(ctx, tip)
	if err != nil {
		chflow.Send(ctx, eventsCh, swapscan.TransactionEvent{Err: err})
		return lastTip
	}

	// Keep only the blocks above the previous tip. When the previous tip is
	// not within the walked page (deep gap or reorg), the whole page is
	// treated as new; duplicates are acceptable downstream.
	fresh := make([]blockwalk.Block, 0, len(blocks))
	for _, block := range blocks {
		if block.Hash == lastTip {
			break
		}
		fresh = append(fresh, block)
	}

	for i := len(fresh) - 1; i >= 0; i-- {
		for _, txID := range fresh[i].TransactionIDs {
			if !chflow.Send(ctx, eventsCh, swapscan.TransactionEvent{TxID: txID}) {
				return lastTip
			}
		}
	}

	return tip
}

// Listen implements swapscan.TransactionListener. The starting tip is
// resolved synchronously so a dead node connection fails construction of the
// stream instead of surfacing later as an event.
func (l *ChainListener) Listen(ctx context.Context) (<-chan swapscan.TransactionEvent, error) {
	lastTip, err := l.client.getBestBlockHash(ctx)
	if err != nil {
		return nil, err
	}

	eventsCh := make(chan swapscan.TransactionEvent, chainEventChannelBufferSize)
	go func() {
		defer close(eventsCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.pollInterval):
				lastTip = l.pollNewBlocks(ctx, lastTip, eventsCh)
			}
		}
	}()

	return eventsCh, nil
}
