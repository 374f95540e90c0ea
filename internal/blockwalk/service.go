// Package blockwalk reconstructs recent block history by walking backward
// from a starting block hash, consulting a TTL cache before the upstream
// block source. Results are non-authoritative: cache expiry may cause
// repeated fetches, and concurrent walkers may write the same entry twice,
// which is a benign overwrite.
package blockwalk

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/swapwatch/internal/pkg/faults"
	"github.com/gabapcia/swapwatch/internal/pkg/logger"
)

// Validation faults returned before any I/O takes place. Each missing input
// is reported distinctly.
var (
	ErrMissingBlockCache  = faults.New(400, "missing block cache")
	ErrMissingBlockSource = faults.New(400, "missing block source")
	ErrMissingNetwork     = faults.New(400, "missing network name")
	ErrMissingStartHash   = faults.New(400, "missing starting block hash")
)

const (
	// walkPageSize bounds how many blocks a single walk collects.
	walkPageSize = 10

	// blockCacheTTL is the fixed time-to-live applied to every cache write.
	blockCacheTTL = 3 * time.Hour
)

// Service walks recent block history on demand.
type Service interface {
	// WalkRecentBlocks returns up to ten blocks starting at startHash and
	// following previous-block hashes backward. The walk ends early when a
	// block has no parent. Any cache or source failure aborts the whole call;
	// partial results are never returned.
	WalkRecentBlocks(ctx context.Context, startHash string) ([]Block, error)
}

type service struct {
	network string
	source  BlockSource
	cache   BlockCache
}

var _ Service = (*service)(nil)

// New builds a walker bound to one network, block source, and cache. It
// fails with a distinct 400 fault for each absent dependency.
func New(network string, source BlockSource, cache BlockCache) (*service, error) {
	switch {
	case cache == nil:
		return nil, ErrMissingBlockCache
	case source == nil:
		return nil, ErrMissingBlockSource
	case network == "":
		return nil, ErrMissingNetwork
	}

	return &service{
		network: network,
		source:  source,
		cache:   cache,
	}, nil
}

// resolveBlock returns the block for the given cursor, preferring the cache.
// The boolean reports whether the block came from the cache; freshly fetched
// blocks still need to be written back by the caller.
func (s *service) resolveBlock(ctx context.Context, cursor string) (Block, bool, error) {
	block, err := s.cache.GetBlock(ctx, s.network, cursor)
	if err == nil {
		return block, true, nil
	}

	if !errors.Is(err, ErrBlockNotCached) {
		return Block{}, false, err
	}

	block, err = s.source.FetchBlock(ctx, s.network, cursor)
	if err != nil {
		return Block{}, false, err
	}

	return block, false, nil
}

// WalkRecentBlocks implements Service. The cursor starts at startHash and
// advances to each block's previous hash until the page is full or a block
// has no parent. Cache writes only happen for blocks that were fetched from
// the source; a failed write aborts the walk rather than being swallowed.
func (s *service) WalkRecentBlocks(ctx context.Context, startHash string) ([]Block, error) {
	if startHash == "" {
		return nil, ErrMissingStartHash
	}

	var (
		blocks = make([]Block, 0, walkPageSize)
		cursor = startHash
	)
	for len(blocks) < walkPageSize && cursor != "" {
		block, cached, err := s.resolveBlock(ctx, cursor)
		if err != nil {
			return nil, err
		}

		// The cursor is authoritative for the block's own hash.
		block.Hash = cursor

		if !cached {
			if err := s.cache.SaveBlock(ctx, s.network, cursor, block, blockCacheTTL); err != nil {
				return nil, err
			}

			logger.Debug(ctx, "cached walked block",
				"block.network", s.network,
				"block.hash", cursor,
			)
		}

		blocks = append(blocks, block)
		cursor = block.PreviousBlockHash
	}

	return blocks, nil
}
