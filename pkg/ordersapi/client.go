package ordersapi

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

	"order_history/internal/models"
)

// maxResponseBytes caps how much of a listing response is read.
const maxResponseBytes = 10 << 20

// ErrUnexpectedShape is returned when the body is neither a list of orders nor
// an object carrying one under "orders".
var ErrUnexpectedShape = errors.New("unexpected orders response shape")

// StatusError reports a non-2xx response from the orders endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orders endpoint responded with status %d", e.StatusCode)
}

type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchOrders lists the orders placed by identity. An empty identity sends the
// request without the email parameter.
func (c *Client) FetchOrders(ctx context.Context, identity string) ([]models.Order, error) {
	endpoint, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse orders endpoint: %w", err)
	}
	if identity != "" {
		query := endpoint.Query()
		query.Set("email", identity)
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return DecodeOrders(body)
}

// DecodeOrders normalizes a listing body into orders. Both a bare JSON array
// and {"orders": [...]} are accepted.
func DecodeOrders(body []byte) ([]models.Order, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrUnexpectedShape
	}

	var list json.RawMessage
	switch body[0] {
	case '[':
		list = body
	case '{':
		var wrapped struct {
			Orders json.RawMessage `json:"orders"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		list = bytes.TrimSpace(wrapped.Orders)
		if len(list) == 0 || list[0] != '[' {
			return nil, ErrUnexpectedShape
		}
	default:
		return nil, ErrUnexpectedShape
	}

	orders := make([]models.Order, 0)
	if err := json.Unmarshal(list, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse orders: %w", err)
	}
	return orders, nil
}
