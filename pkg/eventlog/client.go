// Package eventlog talks to the spreadsheet-backed transactional log that stores attendance,
// incidents and permits outside the relational database.
package eventlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/pkg/config"
)

var (
	// ErrNotConfigured is returned when no log URL is set.
	ErrNotConfigured = errors.New("event log url not configured")
	// ErrRejected is returned when the log answers but refuses the request.
	ErrRejected = errors.New("event log rejected request")
)

// Client appends to and reads from the log.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client from config. httpClient may be nil.
func New(cfg config.EventLogConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: cfg.BaseURL, token: cfg.Token, http: httpClient}
}

type ack struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Append posts one entry to the sheet for kind.
func (c *Client) Append(ctx context.Context, kind models.EventKind, entry interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(kind), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("append %s: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("append %s: status %d: %w", kind, resp.StatusCode, ErrRejected)
	}
	// The service does not promise a structured body; only an explicit success=false fails.
	var a ack
	if len(raw) > 0 && json.Unmarshal(raw, &a) == nil && a.Success != nil && !*a.Success {
		if a.Error == "" {
			a.Error = "rejected"
		}
		return fmt.Errorf("append %s: %s: %w", kind, a.Error, ErrRejected)
	}
	return nil
}

// List reads every entry of kind into dest, which must be a pointer to a slice.
func (c *Client) List(ctx context.Context, kind models.EventKind, dest interface{}) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(kind), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("list %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("list %s: status %d: %w", kind, resp.StatusCode, ErrRejected)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

func (c *Client) url(kind models.EventKind) string {
	return c.baseURL + "/" + string(kind)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
