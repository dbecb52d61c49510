package portal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Login routes per audience. The store hands these back on logout so the
// caller lands on the right portal.
const (
	BusinessLoginRoute = "/business/login"
	ClientLoginRoute   = "/clients/login"
)

// Session is the single durable auth record: absence means logged out.
type Session struct {
	Tokens   Tokens   `json:"tokens"`
	User     User     `json:"user"`
	UserType UserType `json:"user_type"`
}

// SessionStore is the process-wide auth state, persisted to one JSON file.
// It starts uninitialized; Hydrate moves it to hydrated whether or not a
// session was found, and never fails the caller.
type SessionStore struct {
	mu       sync.Mutex
	path     string
	hydrated bool
	current  *Session
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Hydrate loads the persisted session. A missing or unreadable file yields
// the logged-out state; corrupt state is discarded, not surfaced.
func (s *SessionStore) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}
	s.hydrated = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logrus.Warnf("discarding corrupt session file %s: %v", s.path, err)
		return
	}

	s.current = &session
}

// Hydrated reports whether Hydrate has run. Route guards hold rendering of
// protected views until this is true.
func (s *SessionStore) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Current returns the active session, or nil when logged out.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// Login overwrites the session and persists it.
func (s *SessionStore) Login(tokens Tokens, user User, userType UserType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
	s.current = &Session{Tokens: tokens, User: user, UserType: userType}
	return s.persist()
}

// UpdateTokens swaps the token pair after a refresh, keeping the user.
func (s *SessionStore) UpdateTokens(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	s.current.Tokens = tokens
	return s.persist()
}

// Logout clears state and durable storage, returning the login route for
// the user type that was signed in. The type is read before clearing.
func (s *SessionStore) Logout() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	route := ClientLoginRoute
	if s.current != nil && s.current.UserType == UserTypeBusiness {
		route = BusinessLoginRoute
	}

	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove session file %s: %v", s.path, err)
	}

	return route
}

// LoginRouteForPath picks the role-appropriate login route for a protected
// path, used by route guards redirecting unauthenticated access.
func LoginRouteForPath(path string) string {
	if strings.HasPrefix(path, "/business") || strings.HasPrefix(path, "/admin") {
		return BusinessLoginRoute
	}
	return ClientLoginRoute
}

// persist writes the session file. Caller holds the lock.
func (s *SessionStore) persist() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return os.WriteFile(s.path, data, 0o600)
}
