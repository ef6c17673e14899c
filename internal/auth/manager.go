package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hoachau/nowplaying/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// refreshMargin absorbs clock skew and in-flight request latency so a
	// token can't expire mid-request.
	refreshMargin = time.Minute
)

// scopes cover the three read-only widgets.
var scopes = []string{
	"user-read-recently-played",
	"user-top-read",
	"user-read-currently-playing",
}

// Manager maintains exactly one valid bearer token for upstream calls,
// transparently refreshing it before expiry.
type Manager struct {
	conf       *oauth2.Config
	store      *Store
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time

	// mu serializes check-expiry-then-refresh so concurrent handlers
	// don't both fire a refresh.
	mu sync.Mutex
}

// NewManager creates a credential manager around the given store.
// A nil httpClient falls back to [http.DefaultClient].
func NewManager(creds shared.SpotifyConfig, store *Store, httpClient *http.Client, logger *log.Logger) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &Manager{
		conf:       conf,
		store:      store,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// BeginAuthorization generates a fresh state nonce and the Spotify
// authorization URL carrying it. The caller persists the state against
// the browser session and checks it once on callback.
func (m *Manager) BeginAuthorization() (state, authURL string) {
	state = shared.RandomState()
	return state, m.conf.AuthCodeURL(state)
}

// CompleteAuthorization validates the returned state and exchanges the
// authorization code for a TokenSet.
//
// A missing or unequal state fails with [shared.ErrStateMismatch]; a
// failed exchange with [shared.ErrInvalidToken]. No TokenSet is stored
// on any failure.
func (m *Manager) CompleteAuthorization(ctx context.Context, code, state, storedState string) error {
	if state == "" || storedState == "" || state != storedState {
		return shared.ErrStateMismatch
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		// Spotify always sends expires_in, but a present TokenSet must
		// carry a positive expiry.
		expiresAt = m.now().Add(time.Hour)
	}

	m.store.Set(TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	})

	m.logger.Info("authorization complete", "expires_at", expiresAt)
	return nil
}

// EnsureFresh is the lazy-refresh gate called before every upstream call.
//
// It is a no-op when no TokenSet exists or the token is still outside the
// one-minute expiry margin. A refresh that fails discards the entire
// TokenSet; the next data call then reports unauthenticated and a human
// must re-authorize. There is no automatic retry.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts, ok := m.store.Get()
	if !ok {
		return nil
	}

	if m.now().Before(ts.ExpiresAt.Add(-refreshMargin)) {
		return nil
	}

	refreshed, err := m.refresh(ctx, ts)
	if err != nil {
		m.logger.Error("token refresh failed, clearing credentials", "error", err)
		m.store.Clear()
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	m.store.Set(refreshed)
	m.logger.Debug("token refreshed", "expires_at", refreshed.ExpiresAt)
	return nil
}

// tokenResponse is the token endpoint's refresh grant response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// refresh performs the refresh-token grant against the token endpoint
// with client credentials in a Basic header.
func (m *Manager) refresh(ctx context.Context, ts TokenSet) (TokenSet, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {ts.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.conf.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenSet{}, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.conf.ClientID, m.conf.ClientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return TokenSet{}, fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TokenSet{}, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TokenSet{}, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if body.AccessToken == "" {
		return TokenSet{}, fmt.Errorf("refresh response missing access_token")
	}

	// Spotify usually omits refresh_token on refresh; rotation is
	// optional upstream, so keep the old one in that case.
	refreshToken := body.RefreshToken
	if refreshToken == "" {
		refreshToken = ts.RefreshToken
	}

	return TokenSet{
		AccessToken:  body.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    m.now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}

// Token returns the current access token without refreshing.
func (m *Manager) Token() (string, error) {
	ts, ok := m.store.Get()
	if !ok {
		return "", shared.ErrNotAuthenticated
	}
	return ts.AccessToken, nil
}

// Bearer implements [spotify.BearerSource]: it runs the lazy-refresh
// gate and returns whatever credential survives it. A failed refresh is
// logged and surfaces as ErrNotAuthenticated from the emptied store, the
// same way the data handlers report it.
func (m *Manager) Bearer(ctx context.Context) (string, error) {
	if err := m.EnsureFresh(ctx); err != nil {
		m.logger.Warn("proceeding unauthenticated after refresh failure", "error", err)
	}
	return m.Token()
}

// Authenticated reports whether a credential set is currently held.
func (m *Manager) Authenticated() bool {
	return m.store.Authenticated()
}
