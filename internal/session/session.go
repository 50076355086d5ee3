// Package session persists the authenticated session between runs and is the
// single source of truth for the bearer token: both the API client and the
// auth store go through it, so logout and the global 401 handler clear one
// place only.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"floodwatch-client/internal/models"
)

const fileName = "session.json"

type state struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

type Store struct {
	mu       sync.RWMutex
	dir      string
	state    state
	hydrated bool
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Hydrate loads the persisted session from disk. Auth-dependent decisions
// must not run before this returns; a missing or unreadable file hydrates
// to an anonymous session rather than failing.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.hydrated = true }()

	data, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("session file unreadable, starting anonymous")
		}
		s.state = state{}
		return nil
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		logrus.WithError(err).Warn("session file corrupt, starting anonymous")
		s.state = state{}
		return nil
	}

	if st.IsAuthenticated && tokenExpired(st.Token) {
		logrus.Info("stored token expired, starting anonymous")
		s.state = state{}
		return nil
	}

	s.state = st
	return nil
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature; verification is the backend's job, this only avoids hydrating
// a session the next request would 401 anyway. Unparseable tokens are left
// for the backend to reject.
func tokenExpired(token string) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Set stores the authenticated user and token and persists them.
func (s *Store) Set(user *models.User, token string) error {
	s.mu.Lock()
	s.state = state{User: user, Token: token, IsAuthenticated: true}
	s.hydrated = true
	s.mu.Unlock()
	return s.persist()
}

// SetUser replaces the cached user, keeping the current token.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	s.state.User = user
	s.mu.Unlock()
	return s.persist()
}

// Clear wipes the in-memory session and removes the persisted file. Used by
// logout and by the API client's 401 handler.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = state{}
	s.mu.Unlock()

	path := filepath.Join(s.dir, fileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to remove session file")
	}
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the cached session subject, nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *Store) persist() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, fileName), data, 0o600)
}
