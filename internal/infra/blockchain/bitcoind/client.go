// Package bitcoind adapts a bitcoind-compatible JSON-RPC node to the
// blockwalk and swapscan consumer interfaces: a block source for the cached
// walker, plus polling chain and mempool listeners for the scanner.
package bitcoind

import (
	"github.com/gabapcia/swapwatch/internal/blockwalk"
	"github.com/gabapcia/swapwatch/internal/pkg/transport/jsonrpc"
)

// client talks to a single bitcoind-compatible node. The endpoint is already
// network-scoped, so the network name is carried for logging only.
type client struct {
	conn jsonrpc.Client
}

var _ blockwalk.BlockSource = (*client)(nil)

// NewClient builds a block source backed by the given JSON-RPC connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
