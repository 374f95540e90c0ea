package blockwalk

import "context"

// Block is the walker's view of a chain block: the hash it was resolved
// under, the hash of its parent, and the ordered transaction ids it carries.
// An empty PreviousBlockHash marks the traversal boundary (genesis, or an
// ancestor the source cannot serve).
type Block struct {
	Hash              string   // hash this block was resolved under
	PreviousBlockHash string   // parent hash, empty at the traversal boundary
	TransactionIDs    []string // ordered transaction ids in the block
}

// BlockSource fetches raw block contents from the upstream chain data
// provider. Implementations live under internal/infra and are expected to be
// remote I/O.
type BlockSource interface {
	// FetchBlock retrieves the block identified by blockID on the given
	// network. It returns an error when the block cannot be fetched or
	// decoded.
	FetchBlock(ctx context.Context, network, blockID string) (Block, error)
}
