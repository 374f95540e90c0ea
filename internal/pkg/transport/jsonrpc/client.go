// Package jsonrpc implements a minimal JSON-RPC 2.0 client over HTTP,
// suitable for talking to blockchain node daemons and similar services.
// Request ids are generated as UUIDs; retries and timeouts belong to the
// injected HTTP client.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrProviderReturnedError indicates the remote server answered with a
// JSON-RPC error object.
var ErrProviderReturnedError = errors.New("provider error")

// response models a JSON-RPC 2.0 response envelope.
type response struct {
	JsonRPC string `json:"jsonrpc"` // protocol version, normally "2.0"
	Error   *struct {
		Code    int    `json:"code"`    // server-defined error code
		Message string `json:"message"` // human-readable error message
	} `json:"error"`
	Result json.RawMessage `json:"result"` // raw result payload
}

// Err returns nil when the response carries no error object, otherwise an
// error wrapping ErrProviderReturnedError with the server's code and message.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return fmt.Errorf("%w: [%d] - %s", ErrProviderReturnedError, r.Error.Code, r.Error.Message)
}

// Client is the JSON-RPC call surface, abstracted for testing.
type Client interface {
	// Fetch issues a JSON-RPC request with the given method and positional
	// params, returning the raw result or an error.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client sends requests to a single provider endpoint over the configured
// HTTP client.
type client struct {
	providerEndpoint string
	httpClient       *http.Client
}

var _ Client = (*client)(nil)

// Fetch implements Client. The request id is a fresh UUID per call.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	return data.Result, data.Err()
}

// NewClient builds a Client that targets providerEndpoint using httpClient
// for transport.
func NewClient(httpClient *http.Client, providerEndpoint string) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}
