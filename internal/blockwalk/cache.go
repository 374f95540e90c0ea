package blockwalk

import (
	"context"
	"errors"
	"time"
)

// ErrBlockNotCached is returned by GetBlock when no entry exists (or the
// entry has expired) for the requested hash.
var ErrBlockNotCached = errors.New("block not cached")

// BlockCache stores blocks by hash with a time-to-live. The backend owns
// expiry; the walker only reads and writes entries.
type BlockCache interface {
	// GetBlock returns the cached block for the given network and hash, or
	// ErrBlockNotCached when the entry is absent.
	GetBlock(ctx context.Context, network, blockHash string) (Block, error)

	// SaveBlock stores the block under the given network and hash with the
	// provided TTL. Writing an existing key overwrites it.
	SaveBlock(ctx context.Context, network, blockHash string, block Block, ttl time.Duration) error
}

// nopCache is a BlockCache that stores nothing. Every lookup misses, so the
// walker falls through to the block source on each step.
type nopCache struct{}

// GetBlock always reports a miss.
func (nopCache) GetBlock(_ context.Context, _, _ string) (Block, error) {
	return Block{}, ErrBlockNotCached
}

// SaveBlock accepts and discards the block.
func (nopCache) SaveBlock(_ context.Context, _, _ string, _ Block, _ time.Duration) error {
	return nil
}

// NopCache returns a BlockCache that caches nothing. Callers use it to opt
// out of caching explicitly; New still rejects a nil cache.
func NopCache() BlockCache {
	return nopCache{}
}
