// Package swapdetect is the HTTP client for the external swap classifier
// service. The classifier inspects a transaction's scripts and returns zero
// or more typed swap records; swapwatch consumes it as a black box through
// the swapscan.SwapDetector interface.
package swapdetect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gabapcia/swapwatch/internal/swapscan"

	"github.com/hashicorp/go-retryablehttp"
)

// detectRequest is the classification request body.
type detectRequest struct {
	TransactionID string `json:"transaction_id"`
	Network       string `json:"network"`
}

// swapRecord is one classified swap on the wire. Type is passed through
// unvalidated: rejecting unknown tags is the scanner's job, not this
// client's.
type swapRecord struct {
	Type     string `json:"type"`
	Script   string `json:"script"`             // redeem script, common to all variants
	Outpoint string `json:"outpoint,omitempty"` // claim: claimed outpoint; refund: spent outpoint
	Preimage string `json:"preimage,omitempty"` // claim only
	Index    int64  `json:"index,omitempty"`    // funding: swap key index
	Invoice  string `json:"invoice,omitempty"`  // funding only
	Output   string `json:"output,omitempty"`   // funding: output script
	Tokens   int64  `json:"tokens,omitempty"`   // funding: amount in base units
	Vout     uint32 `json:"vout,omitempty"`     // funding: output index
}

// detectResponse is the classifier's response envelope.
type detectResponse struct {
	Swaps []swapRecord `json:"swaps"`
}

// toDetectedSwap maps a wire record to the scanner's swap shape.
func (r swapRecord) toDetectedSwap() swapscan.DetectedSwap {
	return swapscan.DetectedSwap{
		Type:         swapscan.SwapType(r.Type),
		RedeemScript: r.Script,
		Outpoint:     r.Outpoint,
		Preimage:     r.Preimage,
		KeyIndex:     r.Index,
		Invoice:      r.Invoice,
		OutputScript: r.Output,
		Tokens:       r.Tokens,
		Vout:         r.Vout,
	}
}

// client calls one classifier endpoint, bound to a single network.
type client struct {
	httpClient *retryablehttp.Client
	endpoint   string
	network    string
}

var _ swapscan.SwapDetector = (*client)(nil)

// NewClient builds a detector client for the given endpoint and network.
func NewClient(httpClient *retryablehttp.Client, endpoint, network string) *client {
	return &client{
		httpClient: httpClient,
		endpoint:   endpoint,
		network:    network,
	}
}

// DetectSwaps implements swapscan.SwapDetector.
func (c *client) DetectSwaps(ctx context.Context, txID string) ([]swapscan.DetectedSwap, error) {
	body, err := json.Marshal(detectRequest{
		TransactionID: txID,
		Network:       c.network,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("swap detector returned status %d", res.StatusCode)
	}

	var data detectResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	swaps := make([]swapscan.DetectedSwap, len(data.Swaps))
	for i, record := range data.Swaps {
		swaps[i] = record.toDetectedSwap()
	}

	return swaps, nil
}
