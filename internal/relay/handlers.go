package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hoachau/nowplaying/internal/shared"
	"github.com/hoachau/nowplaying/internal/spotify"
)

// stateCookie carries the OAuth state nonce between /login and /callback.
const stateCookie = "spotify_auth_state"

// stateCookieTTL bounds how long a pending authorization stays valid.
const stateCookieTTL = 600

// Authorizer is the credential-manager surface the relay handlers use.
type Authorizer interface {
	BeginAuthorization() (state, authURL string)
	CompleteAuthorization(ctx context.Context, code, state, storedState string) error
	Authenticated() bool
}

// WidgetSource provides the three read-only widget resources.
type WidgetSource interface {
	NowPlaying(ctx context.Context) (*spotify.CurrentlyPlaying, error)
	TopTracksRaw(ctx context.Context, timeRange spotify.TimeRange) ([]byte, error)
	RecentlyPlayedRaw(ctx context.Context) ([]byte, error)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// AuthHandler serves the OAuth login and callback endpoints.
type AuthHandler struct {
	auth        Authorizer
	frontendURI string
	logger      *log.Logger
}

// NewAuthHandler creates the handler for the authorization flow.
// Callback results redirect to frontendURI with a query flag.
func NewAuthHandler(auth Authorizer, frontendURI string, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{auth: auth, frontendURI: frontendURI, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/login", "/callback"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/login":
		h.login(w, r)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login issues a state nonce, persists it in a short-lived cookie, and
// redirects the browser to Spotify's authorization page.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state, authURL := h.auth.BeginAuthorization()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
	})

	h.logger.Debug("authorization started", "state", state)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// callback checks the returned state against the cookie, exchanges the
// code, and redirects to the frontend with the outcome as a query flag.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	storedState := ""
	if c, err := r.Cookie(stateCookie); err == nil {
		storedState = c.Value
	}

	// The nonce is single-use regardless of outcome.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	err := h.auth.CompleteAuthorization(r.Context(), code, state, storedState)
	switch {
	case errors.Is(err, shared.ErrStateMismatch):
		h.logger.Warn("authorization rejected", "error", err)
		http.Redirect(w, r, h.frontendURI+"?error=state_mismatch", http.StatusFound)
	case err != nil:
		h.logger.Error("token exchange failed", "error", err)
		http.Redirect(w, r, h.frontendURI+"?error=invalid_token", http.StatusFound)
	default:
		http.Redirect(w, r, h.frontendURI+"?success=true", http.StatusFound)
	}
}

// DataHandler serves the widget data endpoints.
type DataHandler struct {
	source WidgetSource
	logger *log.Logger
}

// NewDataHandler creates the handler for the /api/data endpoints.
func NewDataHandler(source WidgetSource, logger *log.Logger) *DataHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DataHandler{source: source, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *DataHandler) Routes() []string {
	return []string{
		"/api/data/now-playing",
		"/api/data/top-tracks",
		"/api/data/recent",
	}
}

func (h *DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/data/now-playing":
		h.nowPlaying(w, r)
	case "/api/data/top-tracks":
		h.topTracks(w, r)
	case "/api/data/recent":
		h.recent(w, r)
	default:
		http.NotFound(w, r)
	}
}

// nowPlayingResponse is the normalized shape the widgets consume.
type nowPlayingResponse struct {
	IsPlaying bool           `json:"isPlaying"`
	Track     *spotify.Track `json:"track,omitempty"`
}

func (h *DataHandler) nowPlaying(w http.ResponseWriter, r *http.Request) {
	current, err := h.source.NowPlaying(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch currently playing track")
		return
	}

	writeJSON(w, http.StatusOK, nowPlayingResponse{
		IsPlaying: current.IsPlaying,
		Track:     current.Item,
	})
}

func (h *DataHandler) topTracks(w http.ResponseWriter, r *http.Request) {
	timeRange := spotify.TimeRange(r.URL.Query().Get("time_range"))
	if timeRange == "" {
		timeRange = spotify.MediumTerm
	}
	if !timeRange.Valid() {
		writeError(w, http.StatusBadRequest, "invalid time_range")
		return
	}

	body, err := h.source.TopTracksRaw(r.Context(), timeRange)
	if err != nil {
		h.fail(w, err, "Failed to fetch top tracks")
		return
	}

	h.passthrough(w, body)
}

func (h *DataHandler) recent(w http.ResponseWriter, r *http.Request) {
	body, err := h.source.RecentlyPlayedRaw(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to fetch recent tracks")
		return
	}

	h.passthrough(w, body)
}

// passthrough forwards an upstream body verbatim.
func (h *DataHandler) passthrough(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write response body", "error", err)
	}
}

// fail maps a data-path error onto the widget contract: 401 when no
// credential is held, 500 for everything upstream. No retries either way.
func (h *DataHandler) fail(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, shared.ErrNotAuthenticated) {
		writeError(w, http.StatusUnauthorized, "Not authenticated with Spotify")
		return
	}

	h.logger.Error("upstream request failed", "error", err)
	writeError(w, http.StatusInternalServerError, message)
}

// HealthHandler reports liveness and authentication state.
type HealthHandler struct {
	auth Authorizer
}

// NewHealthHandler creates the /health handler.
func NewHealthHandler(auth Authorizer) *HealthHandler {
	return &HealthHandler{auth: auth}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"authenticated": h.auth.Authenticated(),
	})
}
