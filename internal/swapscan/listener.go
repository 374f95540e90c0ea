package swapscan

import "context"

// TransactionEvent is one observation from a transaction listener: either a
// transaction id that appeared, or an error raised by the listener itself.
type TransactionEvent struct {
	TxID string // observed transaction id (empty when Err is set)
	Err  error  // listener failure (nil on a transaction observation)
}

// TransactionListener asynchronously emits transaction ids as they are
// observed, indefinitely, until its context ends. Implementations own their
// recovery policy; the scanner never restarts a listener.
type TransactionListener interface {
	// Listen begins observation and returns the event channel. The channel is
	// closed when ctx is canceled. A non-nil error means observation could
	// not start at all.
	Listen(ctx context.Context) (<-chan TransactionEvent, error)
}
