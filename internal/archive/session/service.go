// Package session owns the authenticated session for the archive. It is the
// single source of truth: every component reads through this service and
// none holds a private copy that could drift.
//
// Single-writer contract: only the auth callback (on successful token
// decode) and explicit logout mutate the session. API-layer 401 handling
// funnels through ClearOnUnauthorized, which is logout in disguise.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/store"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
)

// Service holds the current session in memory and mirrors every mutation to
// the store synchronously, so a restarted process knows whether it is logged
// in without any network round-trip.
type Service struct {
	mu       sync.RWMutex
	current  domain.Session
	sessions store.Sessions
}

func NewService(sessions store.Sessions) *Service {
	return &Service{sessions: sessions}
}

// Load hydrates the in-memory session from the store. Called once at
// startup; an absent row just means logged out.
func (s *Service) Load(ctx context.Context) error {
	persisted, err := s.sessions.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = persisted
	s.mu.Unlock()
	return nil
}

// Set atomically replaces both halves of the session. Last write wins; any
// prior session is overwritten without merging. The store write happens
// first so memory never claims a session that didn't persist.
func (s *Service) Set(ctx context.Context, token string, user domain.Identity) error {
	next := domain.Session{Token: token, User: &user}

	if err := s.sessions.Put(ctx, next); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Clear atomically nulls token and user.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.sessions.Delete(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()
	return nil
}

// ClearOnUnauthorized clears the session iff err is a 401-class provider
// failure. Returns true when it cleared.
func (s *Service) ClearOnUnauthorized(ctx context.Context, err error) (bool, error) {
	var apiErr *mysterria.APIError
	if !errors.As(err, &apiErr) || !apiErr.IsUnauthorized() {
		return false, nil
	}
	if clearErr := s.Clear(ctx); clearErr != nil {
		return false, clearErr
	}
	return true, nil
}

// Current returns a snapshot of the session.
func (s *Service) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Authenticated reports whether token and user are both present. Derived on
// every call, never cached, so it reflects the latest Set/Clear immediately.
func (s *Service) Authenticated() bool {
	return s.Current().Authenticated()
}

// Token returns the current bearer token, "" when logged out.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// HasPermission reports whether the logged-in user carries the permission.
func (s *Service) HasPermission(permission string) bool {
	return s.Current().HasPermission(permission)
}

// CanRead is always true: the archive's GET surface is public.
func (s *Service) CanRead() bool { return true }

// CanWrite requires the archive write permission.
func (s *Service) CanWrite() bool {
	return s.HasPermission(domain.PermArchiveWrite)
}

// CanModerate requires the archive moderation permission.
func (s *Service) CanModerate() bool {
	return s.HasPermission(domain.PermArchiveModerate)
}
