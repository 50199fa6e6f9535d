// Package authadmin wraps the user-admin endpoints of the hosted auth provider.
package authadmin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/YasmaniJob/beeclass/pkg/config"
)

// PageSize is the number of users requested per listing call.
const PageSize = 100

// User is the subset of the provider's user object this service needs.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client calls the admin API with the service-role key.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// New returns nil when the admin API is not configured.
func New(cfg config.AuthAdminConfig, httpClient *http.Client) *Client {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: cfg.URL, key: cfg.ServiceKey, http: httpClient}
}

// ListUsers returns one page (1-based) of users.
func (c *Client) ListUsers(ctx context.Context, page int) ([]User, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(PageSize))
	req, err := c.request(ctx, http.MethodGet, "/auth/v1/admin/users?"+q.Encode())
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list users page %d: %w", page, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list users page %d: status %d", page, resp.StatusCode)
	}
	var body struct {
		Users []User `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode users page %d: %w", page, err)
	}
	return body.Users, nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := c.request(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete user %s: status %d", id, resp.StatusCode)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build admin request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
