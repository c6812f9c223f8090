package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Item is the wire representation of a content item as served by the
// backend.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	AssetURL  *string   `json:"asset_url"`
	AssetName *string   `json:"asset_name"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// errorResponse matches the backend's JSON error shape.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client is an HTTP client for the content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// NewClient creates a new content API client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    config.BaseURL,
		httpClient: httpClient,
	}
}

// ListItems fetches the full item list. Reconnecting stream observers use it
// to resynchronize, since the event stream never replays.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var items []Item
	if err := c.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem fetches a single item.
func (c *Client) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	url := fmt.Sprintf("%s/api/v1/posts/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var item Item
	if err := c.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// LikeItem submits a like and returns the server's authoritative item state.
func (c *Client) LikeItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	url := fmt.Sprintf("%s/api/v1/posts/%s/like", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var item Item
	if err := c.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RecordView submits a view signal. The server treats an unknown id as a
// silent no-op, so success here only means the request was accepted.
func (c *Client) RecordView(ctx context.Context, id uuid.UUID) error {
	url := fmt.Sprintf("%s/api/v1/posts/%s/view", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, nil)
}

// do executes the request and decodes a JSON body into out when provided.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			return fmt.Errorf("server rejected request (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("server rejected request (%d)", resp.StatusCode)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
