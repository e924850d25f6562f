// Package client reads snapshots from a running dfscope server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
	"github.com/f3rmion/dfscope/internal/server"
	"github.com/gorilla/websocket"
)

const defaultTimeout = 30 * time.Second

// Client is a refresh.Source backed by the HTTP API.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

var _ refresh.Source = (*Client)(nil)

// New returns a client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	return &Client{
		base: u,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

// Latest fetches the whole current snapshot.
func (c *Client) Latest(ctx context.Context) (*df.Snapshot, error) {
	var snap df.Snapshot
	if err := c.get(ctx, "/snapshot", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Status fetches the refresh loop's health.
func (c *Client) Status(ctx context.Context) (refresh.Status, error) {
	var st refresh.Status
	err := c.get(ctx, "/status", &st)
	return st, err
}

// Refresh asks the server to rebuild now.
func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/refresh", http.StatusAccepted, nil)
}

// Catalog fetches the server's reference tables.
func (c *Client) Catalog(ctx context.Context) (*gamedata.Catalog, error) {
	var cat gamedata.Catalog
	if err := c.get(ctx, "/data", &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Watch calls fn with every update pushed by the server until ctx is
// cancelled or the connection drops.
func (c *Client) Watch(ctx context.Context, fn func(server.Update)) error {
	u := *c.base
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path += "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", u.String(), err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var upd server.Update
		if err := conn.ReadJSON(&upd); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading update: %w", err)
		}
		fn(upd)
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, http.StatusOK, out)
}

func (c *Client) do(ctx context.Context, method, path string, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return refresh.ErrNoSnapshot
	case resp.StatusCode != want:
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
