package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/swapwatch/internal/blockwalk"

	"github.com/redis/go-redis/v9"
)

// blockwalkKeyPrefix namespaces every key owned by the block cache.
const blockwalkKeyPrefix = "blockwalk"

// blockCacheKey builds the key for a cached block:
//
//	"blockwalk:block:<network>:<blockHash>"
func blockCacheKey(network, blockHash string) string {
	return fmt.Sprintf("%s:block:%s:%s", blockwalkKeyPrefix, network, blockHash)
}

// cachedBlock is the JSON layout of a cache entry.
type cachedBlock struct {
	Hash              string   `json:"hash"`
	PreviousBlockHash string   `json:"previous_block_hash,omitempty"`
	TransactionIDs    []string `json:"transaction_ids"`
}

// GetBlock returns the cached block for the given network and hash, or
// blockwalk.ErrBlockNotCached when the key is absent or expired. Expiry is
// owned entirely by Redis via the TTL set at write time.
func (c *client) GetBlock(ctx context.Context, network, blockHash string) (blockwalk.Block, error) {
	key := blockCacheKey(network, blockHash)

	val, err := c.conn.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = blockwalk.ErrBlockNotCached
		}

		return blockwalk.Block{}, err
	}

	var entry cachedBlock
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return blockwalk.Block{}, err
	}

	return blockwalk.Block{
		Hash:              entry.Hash,
		PreviousBlockHash: entry.PreviousBlockHash,
		TransactionIDs:    entry.TransactionIDs,
	}, nil
}

// SaveBlock stores the block as JSON under its network-scoped key with the
// provided TTL. Concurrent writers overwrite each other with identical
// values, which is benign.
func (c *client) SaveBlock(ctx context.Context, network, blockHash string, block blockwalk.Block, ttl time.Duration) error {
	entry := cachedBlock{
		Hash:              block.Hash,
		PreviousBlockHash: block.PreviousBlockHash,
		TransactionIDs:    block.TransactionIDs,
	}

	val, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := blockCacheKey(network, blockHash)
	return c.conn.Set(ctx, key, val, ttl).Err()
}

// Compile-time assertion that the client implements the walker's cache.
var _ blockwalk.BlockCache = new(client)
