// Package ledger talks to an external distributed ledger through a narrow
// key/value interface keyed by identity. Writes are asynchronous: a submitted
// transaction lands in a pending pool and only later becomes final, and a
// read sees finalized state only.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrSubmitRejected = errors.New("ledger rejected the transaction")
	ErrNotFound       = errors.New("no ledger entry for identity")
)

// TxStatus is the lifecycle state of a submitted transaction.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxFinal   TxStatus = "final"
)

// TxHandle identifies a submitted transaction. A handle is returned as soon
// as the transaction is accepted into the pending pool; finality comes later
// and cannot be awaited through this interface.
type TxHandle struct {
	ID     string   `json:"id"`
	Status TxStatus `json:"status"`
}

// Client is the ledger collaborator contract. Both methods may be slow;
// callers must pass a context and treat every call as potentially blocking.
type Client interface {
	// Submit records payload under identity. The write is fire-and-forget:
	// once accepted it cannot be withdrawn, and there is no guarantee about
	// when (or in failure scenarios, whether) it becomes readable.
	Submit(ctx context.Context, identity string, payload []byte) (TxHandle, error)

	// Read returns the finalized payload stored under identity, or
	// ErrNotFound when nothing final exists for it.
	Read(ctx context.Context, identity string) ([]byte, error)
}

// HTTPClient adapts a remote ledger node's JSON API to the Client interface.
// It performs no retries; retry policy belongs to the node, not here.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a Client against the node at endpoint. The timeout
// bounds each individual call.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	Identity string `json:"identity"`
	Payload  []byte `json:"payload"`
}

type readResponse struct {
	Payload []byte `json:"payload"`
}

// Submit posts the payload to the node's transaction endpoint.
func (c *HTTPClient) Submit(ctx context.Context, identity string, payload []byte) (TxHandle, error) {
	body, err := json.Marshal(submitRequest{Identity: identity, Payload: payload})
	if err != nil {
		return TxHandle{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/tx", bytes.NewReader(body))
	if err != nil {
		return TxHandle{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return TxHandle{}, fmt.Errorf("submitting transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return TxHandle{}, fmt.Errorf("%w: status %d", ErrSubmitRejected, resp.StatusCode)
	}

	var handle TxHandle
	if err := json.NewDecoder(resp.Body).Decode(&handle); err != nil {
		return TxHandle{}, fmt.Errorf("decoding tx handle: %w", err)
	}
	return handle, nil
}

// Read fetches the finalized payload for identity from the node.
func (c *HTTPClient) Read(ctx context.Context, identity string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"/state/"+url.PathEscape(identity), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reading ledger state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected ledger status %d", resp.StatusCode)
	}

	var out readResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding ledger state: %w", err)
	}
	return out.Payload, nil
}
