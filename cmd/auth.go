package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login opens the proxy's /login page, which starts the Spotify
// authorization-code flow in the browser.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	loginURL := config.Client.ProxyURL + "/login"

	if cmd.Bool("no-browser") {
		return r.writePlain("Open this URL to connect Spotify:\n%s\n", loginURL)
	}

	r.logger.Info("opening browser for Spotify authorization", "url", loginURL)
	if err := shared.OpenBrowser(loginURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		return r.writePlain("Open this URL to connect Spotify:\n%s\n", loginURL)
	}

	return r.writePlain("Browser opened. Approve access, then run 'nowplaying watch'.\n")
}

// Status calls the proxy's /health endpoint and reports whether a
// Spotify account is connected.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	healthURL := config.Client.ProxyURL + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: proxy unreachable at %s", shared.ErrNetwork, config.Client.ProxyURL)
	}
	defer resp.Body.Close()

	var health struct {
		Status        string `json:"status"`
		Authenticated bool   `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(health, true)
	}

	if err := r.writePlain("proxy: %s (%s)\n", config.Client.ProxyURL, health.Status); err != nil {
		return err
	}
	if health.Authenticated {
		return r.writePlain("spotify: connected\n")
	}
	return r.writePlain("spotify: not connected, run 'nowplaying login'\n")
}
