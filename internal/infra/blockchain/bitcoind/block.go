package bitcoind

import (
	"context"
	"encoding/json"

	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/pkg/logger"
)

// BlockResponse is the getblock (verbosity 1) payload: header fields plus
// the ordered list of transaction ids.
type BlockResponse struct {
	Hash              string   `json:"hash"`
	Confirmations     int64    `json:"confirmations"`
	Height            int64    `json:"height"`
	Version           int64    `json:"version"`
	VersionHex        string   `json:"versionHex"`
	MerkleRoot        string   `json:"merkleroot"`
	Time              int64    `json:"time"`
	MedianTime        int64    `json:"mediantime"`
	Nonce             uint32   `json:"nonce"`
	Bits              string   `json:"bits"`
	Difficulty        float64  `json:"difficulty"`
	Chainwork         string   `json:"chainwork"`
	NTx               int      `json:"nTx"`
	PreviousBlockHash string   `json:"previousblockhash"`
	NextBlockHash     string   `json:"nextblockhash"`
	Tx                []string `json:"tx"`
}

// toWalkBlock converts a raw block response into the walker's block shape.
// A genesis block has no previousblockhash, which maps to the walker's
// traversal boundary.
func (b BlockResponse) toWalkBlock() blockwalk.Block {
	return blockwalk.Block{
		Hash:              b.Hash,
		PreviousBlockHash: b.PreviousBlockHash,
		TransactionIDs:    b.Tx,
	}
}

// getBlock retrieves a block by hash at verbosity 1 (tx ids only).
func (c *client) getBlock(ctx context.Context, blockHash string) (BlockResponse, error) {
	data, err := c.conn.Fetch(ctx, "getblock", blockHash, 1)
	if err != nil {
		return BlockResponse{}, err
	}

	var blockResponse BlockResponse
	return blockResponse, json.Unmarshal(data, &blockResponse)
}

// getBestBlockHash returns the hash of the current chain tip.
func (c *client) getBestBlockHash(ctx context.Context) (string, error) {
	data, err := c.conn.Fetch(ctx, "getbestblockhash")
	if err != nil {
		return "", err
	}

	var hash string
	return hash, json.Unmarshal(data, &hash)
}

// getRawMempool returns the ids of every transaction currently in the
// node's mempool.
func (c *client) getRawMempool(ctx context.Context) ([]string, error) {
	data, err := c.conn.Fetch(ctx, "getrawmempool")
	if err != nil {
		return nil, err
	}

	var txIDs []string
	return txIDs, json.Unmarshal(data, &txIDs)
}

// FetchBlock implements blockwalk.BlockSource.
func (c *client) FetchBlock(ctx context.Context, network, blockID string) (blockwalk.Block, error) {
	block, err := c.getBlock(ctx, blockID)
	if err != nil {
		return blockwalk.Block{}, err
	}

	logger.Debug(ctx, "fetched block from node",
		"block.network", network,
		"block.hash", blockID,
		"block.tx_count", len(block.Tx),
	)

	return block.toWalkBlock(), nil
}
