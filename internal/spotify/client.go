// Read-only Spotify Web API client used by the proxy relay.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hoachau/nowplaying/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// The widgets show at most ten entries, matching the original site.
	listLimit = 10
)

// BearerSource yields a valid access token for upstream calls.
//
// Implementations are expected to refresh lazily and return
// [shared.ErrNotAuthenticated] when no credential is available.
type BearerSource interface {
	Bearer(ctx context.Context) (string, error)
}

// Client performs authenticated, read-only requests against the Spotify Web API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     BearerSource
}

// NewClient creates a Spotify API client drawing bearer tokens from the
// given source. A nil httpClient falls back to [http.DefaultClient].
func NewClient(tokens BearerSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    spotifyBaseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// get performs an authenticated GET and returns the response.
// The caller owns the body.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.tokens.Bearer(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	return resp, nil
}

// NowPlaying fetches the user's currently playing track.
//
// Spotify returns 204 No Content when nothing is playing; that is
// normalized to a non-playing result rather than an error.
func (c *Client) NowPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	resp, err := c.get(ctx, "/me/player/currently-playing")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &CurrentlyPlaying{IsPlaying: false, Item: nil}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var current CurrentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	return &current, nil
}

// TopTracksRaw fetches the user's top tracks for the given range and
// returns the upstream body verbatim for passthrough.
func (c *Client) TopTracksRaw(ctx context.Context, timeRange TimeRange) ([]byte, error) {
	if !timeRange.Valid() {
		return nil, fmt.Errorf("%w: time_range %q", shared.ErrInvalidArgument, timeRange)
	}
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s", listLimit, timeRange)
	return c.getRaw(ctx, endpoint)
}

// RecentlyPlayedRaw fetches the user's listening history and returns the
// upstream body verbatim for passthrough.
func (c *Client) RecentlyPlayedRaw(ctx context.Context) ([]byte, error) {
	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", listLimit)
	return c.getRaw(ctx, endpoint)
}

func (c *Client) getRaw(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	return body, nil
}
