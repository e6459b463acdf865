package session

import (
	"context"
	"strings"
	"sync"

	"taskdeck/internal/api"
	"taskdeck/internal/logging"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
)

// AuthAPI is the slice of the API client the session layer needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Register(ctx context.Context, username, email, password string) error
}

// Session owns the stored credentials and the forced-logout reaction to
// 401 responses. Invalidation is idempotent: no matter how many stale
// requests come back unauthorized, credentials are cleared and the UI is
// bounced to login exactly once.
type Session struct {
	kv     store.KV
	client AuthAPI

	mu          sync.Mutex
	invalidated bool
}

// New creates a session over kv using client for auth calls
func New(kv store.KV, client AuthAPI) *Session {
	return &Session{kv: kv, client: client}
}

// Login authenticates and persists the returned token and user details
func (s *Session) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &api.ValidationError{Field: "password", Message: "password is required"}
	}

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.kv.Set(store.KeyToken, user.Token); err != nil {
		return err
	}
	if err := s.kv.Set(store.KeyUserDetails, string(user.Data)); err != nil {
		return err
	}

	s.mu.Lock()
	s.invalidated = false
	s.mu.Unlock()

	logging.Logger.Info("logged in")
	return nil
}

// Register creates an account. The user still has to log in afterwards.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return &api.ValidationError{Field: "username", Message: "username is required"}
	}
	if strings.TrimSpace(email) == "" {
		return &api.ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &api.ValidationError{Field: "password", Message: "password is required"}
	}
	return s.client.Register(ctx, username, email, password)
}

// Logout clears stored credentials
func (s *Session) Logout() {
	s.kv.Remove(store.KeyToken)
	s.kv.Remove(store.KeyUserDetails)
	logging.Logger.Info("logged out")
}

// Invalidate clears credentials in reaction to a 401. It reports whether
// this call actually invalidated; repeat calls are no-ops until the next
// successful login.
func (s *Session) Invalidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invalidated {
		return false
	}
	s.invalidated = true

	s.kv.Remove(store.KeyToken)
	s.kv.Remove(store.KeyUserDetails)
	logging.Logger.Warn("session invalidated by server")
	return true
}

// Authenticated reports whether a usable token is stored
func (s *Session) Authenticated() bool {
	token, err := s.kv.Get(store.KeyToken)
	if err != nil {
		return false
	}
	return token != "" && token != "null" && token != "undefined"
}
