// Package chflow provides context-aware channel send and receive helpers so
// that pipeline stages unwind promptly when their context is canceled.
package chflow

import "context"

// Receive blocks until a value arrives on ch or ctx is done. The boolean is
// false when the context was canceled or the channel was closed.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// Send blocks until data is accepted by ch or ctx is done. It returns true
// only if the value was delivered.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}
