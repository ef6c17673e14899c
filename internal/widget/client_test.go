package widget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hoachau/nowplaying/internal/shared"
)

func TestClientFetch(t *testing.T) {
	t.Run("now playing decodes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/data/now-playing" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"isPlaying":true,"track":{"id":"t1","name":"Song","artists":[{"id":"a1","name":"Artist"}]}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		payload, err := c.NowPlaying(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !payload.IsPlaying || payload.Track == nil || payload.Track.Name != "Song" {
			t.Errorf("unexpected payload: %+v", payload)
		}
	})

	t.Run("top tracks sends the bucket", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("time_range"); got != "short_term" {
				t.Errorf("expected time_range=short_term, got %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"id":"t1","name":"Song","artists":[{"id":"a1","name":"Artist"}]}]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		payload, err := c.TopTracks(context.Background(), "short_term")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payload.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(payload.Items))
		}
	})

	t.Run("401 maps to not authenticated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Not authenticated with Spotify"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		if _, err := c.Recent(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("500 maps to upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Failed to fetch data from Spotify"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		if _, err := c.NowPlaying(context.Background()); !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("slow proxy maps to timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		c := NewClient(srv.URL, srv.Client())
		c.timeout = 50 * time.Millisecond
		if _, err := c.NowPlaying(context.Background()); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("unreachable proxy maps to network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient(srv.URL, nil)
		if _, err := c.Recent(context.Background()); !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("malformed body maps to malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items": not-json`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		if _, err := c.TopTracks(context.Background(), "medium_term"); !errors.Is(err, shared.ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})
}
