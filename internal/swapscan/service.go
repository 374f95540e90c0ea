// Package swapscan aggregates transaction observations from independent
// block and mempool listeners, classifies each transaction through a swap
// detector, and re-emits typed claim, funding, and refund notifications on a
// single stream. The scanner keeps no state across transactions: it does not
// deduplicate ids seen by both listeners and guarantees no ordering across
// sources, which makes its output non-authoritative by design.
package swapscan

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/swapwatch/internal/pkg/faults"
	"github.com/gabapcia/swapwatch/internal/pkg/logger"
	"github.com/gabapcia/swapwatch/internal/pkg/x/chflow"
)

// ErrServiceAlreadyStarted is returned by Start when the scanner is running.
var ErrServiceAlreadyStarted = errors.New("service already started")

// Construction faults, reported synchronously before any listener work.
var (
	ErrMissingNetwork              = faults.New(400, "missing network name")
	ErrMissingSwapDetector         = faults.New(400, "missing swap detector")
	ErrMissingTransactionListeners = faults.New(400, "missing transaction listeners")
)

// ErrUnknownSwapType is emitted as an error notification when the detector
// declares a tag outside the three known swap variants. The offending record
// is skipped; its siblings are still dispatched.
var ErrUnknownSwapType = faults.New(500, "unknown swap type")

// notificationChannelBufferSize absorbs short bursts when a block carries
// several swap transactions.
const notificationChannelBufferSize = 10

// Service is the long-lived swap notification source.
type Service interface {
	// Start subscribes to every listener and returns the notification
	// channel. The channel is closed once all listener pipelines have wound
	// down after Close or context cancellation.
	Start(ctx context.Context) (<-chan Notification, error)

	// Close stops the scanner. It is safe to call more than once.
	Close()
}

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc func()

	network   string
	detector  SwapDetector
	listeners []TransactionListener
}

var _ Service = (*service)(nil)

// New builds a scanner bound to one network. It fails with a distinct 400
// fault when the network, detector, or listener set is absent.
func New(network string, detector SwapDetector, listeners ...TransactionListener) (*service, error) {
	switch {
	case network == "":
		return nil, ErrMissingNetwork
	case detector == nil:
		return nil, ErrMissingSwapDetector
	case len(listeners) == 0:
		return nil, ErrMissingTransactionListeners
	}

	return &service{
		network:   network,
		detector:  detector,
		listeners: listeners,
	}, nil
}

// buildNotification converts one detected swap record into its typed
// notification, or fails with ErrUnknownSwapType for an unrecognized tag.
func (s *service) buildNotification(txID string, swap DetectedSwap) (Notification, error) {
	switch swap.Type {
	case SwapTypeClaim:
		return Notification{Claim: &ClaimNotification{
			TxID:         txID,
			Network:      s.network,
			Outpoint:     swap.Outpoint,
			Preimage:     swap.Preimage,
			RedeemScript: swap.RedeemScript,
		}}, nil
	case SwapTypeFunding:
		return Notification{Funding: &FundingNotification{
			TxID:         txID,
			Network:      s.network,
			KeyIndex:     swap.KeyIndex,
			Invoice:      swap.Invoice,
			OutputScript: swap.OutputScript,
			RedeemScript: swap.RedeemScript,
			Tokens:       swap.Tokens,
			Vout:         swap.Vout,
		}}, nil
	case SwapTypeRefund:
		return Notification{Refund: &RefundNotification{
			TxID:         txID,
			Network:      s.network,
			Outpoint:     swap.Outpoint,
			RedeemScript: swap.RedeemScript,
		}}, nil
	default:
		return Notification{}, fmt.Errorf("%q: %w", swap.Type, ErrUnknownSwapType)
	}
}

// scanTransaction classifies one transaction and dispatches a notification
// per detected record. Detector failures and unknown tags are reported as
// error notifications local to this transaction; neither stops the scanner.
func (s *service) scanTransaction(ctx context.Context, txID string, out chan<- Notification) {
	swaps, err := s.detector.DetectSwaps(ctx, txID)
	if err != nil {
		chflow.Send(ctx, out, Notification{Err: err})
		return
	}

	for _, swap := range swaps {
		notification, err := s.buildNotification(txID, swap)
		if err != nil {
			logger.Error(ctx, "skipping swap record with unrecognized type",
				"tx.id", txID,
				"tx.network", s.network,
				"swap.type", swap.Type,
			)

			if !chflow.Send(ctx, out, Notification{Err: err}) {
				return
			}
			continue
		}

		if !chflow.Send(ctx, out, notification) {
			return
		}
	}
}

// consumeListener drains one listener's event stream until it closes or ctx
// ends. Listener errors are forwarded verbatim; transaction observations go
// through detection and dispatch.
func (s *service) consumeListener(ctx context.Context, eventsCh <-chan TransactionEvent, out chan<- Notification) {
	for {
		event, ok := chflow.Receive(ctx, eventsCh)
		if !ok {
			return
		}

		if event.Err != nil {
			if !chflow.Send(ctx, out, Notification{Err: event.Err}) {
				return
			}
			continue
		}

		s.scanTransaction(ctx, event.TxID, out)
	}
}

// Start implements Service. Every listener is subscribed before any
// notification is produced; a subscription failure tears the whole start
// down. Each listener is drained by its own goroutine feeding the shared
// notification channel, so events from different sources interleave freely.
func (s *service) Start(ctx context.Context) (<-chan Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	eventChs := make([]<-chan TransactionEvent, 0, len(s.listeners))
	for _, listener := range s.listeners {
		eventsCh, err := listener.Listen(ctx)
		if err != nil {
			cancel()
			return nil, err
		}

		eventChs = append(eventChs, eventsCh)
	}

	notificationCh := make(chan Notification, notificationChannelBufferSize)

	var wg sync.WaitGroup
	for _, eventsCh := range eventChs {
		wg.Add(1)
		go func(eventsCh <-chan TransactionEvent) {
			defer wg.Done()
			s.consumeListener(ctx, eventsCh, notificationCh)
		}(eventsCh)
	}

	// The channel closes only after every consumer has stopped sending.
	go func() {
		wg.Wait()
		close(notificationCh)
	}()

	s.closeFunc = cancel
	s.isStarted = true
	return notificationCh, nil
}

// Close implements Service.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.isStarted = false
	s.closeFunc = nil
}
