package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/spotify"
)

// fetchTimeout bounds each poll request. A fetch that exceeds it is
// aborted and reported as a timeout; nothing from it is applied.
const fetchTimeout = 8 * time.Second

// Client fetches widget data from the proxy, classifying failures into
// the typed errors the panels turn into user-facing messages.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a proxy client. A nil httpClient falls back to
// [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    fetchTimeout,
	}
}

// getJSON fetches path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err)
	}

	return nil
}

// classifyTransport separates timeouts from unreachable-proxy failures.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
}

// NowPlaying fetches the now-playing widget payload.
func (c *Client) NowPlaying(ctx context.Context) (*NowPlayingPayload, error) {
	var payload NowPlayingPayload
	if err := c.getJSON(ctx, "/api/data/now-playing", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TopTracks fetches the top-tracks payload for one time-range bucket.
func (c *Client) TopTracks(ctx context.Context, timeRange spotify.TimeRange) (*TopTracksPayload, error) {
	var payload TopTracksPayload
	path := "/api/data/top-tracks?time_range=" + string(timeRange)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Recent fetches the recently-played payload.
func (c *Client) Recent(ctx context.Context) (*RecentPayload, error) {
	var payload RecentPayload
	if err := c.getJSON(ctx, "/api/data/recent", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
