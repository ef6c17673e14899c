// package auth owns the proxy's single Spotify credential set and its
// refresh lifecycle.
package auth

import (
	"sync"
	"time"
)

// TokenSet is the process-wide OAuth credential. At most one exists at a
// time; it is created by the authorization-code exchange, replaced on
// refresh, and cleared entirely when a refresh fails.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Store holds the single in-memory TokenSet.
//
// It is deliberately not persistent: a process restart forces
// re-authorization. The store is injected rather than kept as a package
// global so tests (and a future multi-tenant setup) can swap it out.
type Store struct {
	mu     sync.RWMutex
	tokens *TokenSet
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Get returns a copy of the current TokenSet, if one exists.
func (s *Store) Get() (TokenSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return TokenSet{}, false
	}
	return *s.tokens, true
}

// Set replaces the stored TokenSet.
func (s *Store) Set(ts TokenSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = &ts
}

// Clear discards the stored TokenSet.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
}

// Authenticated reports whether a credential is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens != nil
}
