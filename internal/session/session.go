// Package session holds the operator's bearer credential with an explicit
// lifecycle: read at start, acquired on login, cleared on logout or expiry.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

// DefaultKey is the well-known storage key of the credential.
const DefaultKey = "token"

var ErrEmptyToken = errors.New("session: token cannot be empty")

// Session is the credential injected into the Session Guard.
type Session struct {
	mu    sync.RWMutex
	store Store
	key   string
	token string
	now   func() time.Time
}

type Option func(*Session)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Session) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock is used by tests to pin expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New loads any credential already persisted in store.
func New(store Store, opts ...Option) (*Session, error) {
	s := &Session{store: store, key: DefaultKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	token, err := store.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	s.token = strings.TrimSpace(token)
	return s, nil
}

// Token returns the current credential, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Acquire stores a freshly issued credential.
func (s *Session) Acquire(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(s.key, token); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	s.token = token
	log.Debug().Str("module", "session").Msg("credential acquired")
	return nil
}

// Clear drops the credential from memory and storage. The in-memory copy is
// cleared even when the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Delete(s.key); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	log.Debug().Str("module", "session").Msg("credential cleared")
	return nil
}

// Expired reports whether the credential is a JWT whose exp claim has
// passed. Opaque tokens never expire locally; the server decides.
func (s *Session) Expired() bool {
	exp, ok := s.ExpiresAt()
	return ok && !s.now().Before(exp)
}

// ExpiresAt returns the exp claim of a JWT credential. The signature is not
// verified; the client only uses the claim to avoid a doomed round trip.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
