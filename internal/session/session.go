// Package session is the single source of truth for who is logged in.
//
// The in-memory user and the persisted credentials are kept consistent at the
// moment every mutating method returns. Network calls never run under the lock.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/state"
)

var (
	// ErrNoSession is returned when an operation needs a persisted session.
	ErrNoSession = errors.New("no active session")
	// ErrSessionChanged is returned when the session was replaced or cleared
	// while a revalidation was in flight; its result is discarded.
	ErrSessionChanged = errors.New("session changed during revalidation")
)

const msgMissingCredentials = "missing credential material"

// revokeTimeout bounds the background server-side logout.
const revokeTimeout = 5 * time.Second

// Authenticator is the backend auth surface. *api.AuthAPI satisfies it.
type Authenticator interface {
	Login(ctx context.Context, in domain.LoginInput) (*domain.AuthPayload, error)
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthPayload, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.User, error)
}

// State is a point-in-time copy of the session.
type State struct {
	User    *domain.User `json:"user"`
	Loading bool         `json:"loading"`
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool { return s.User != nil }

// Service holds the session. Build one with New and pass it by reference.
type Service struct {
	auth  Authenticator
	store state.Storage
	log   logger.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool

	revalidate singleflight.Group
	revokes    sync.WaitGroup
}

// New returns an empty, loading session.
func New(auth Authenticator, store state.Storage, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		auth:    auth,
		store:   store,
		log:     log,
		loading: true,
	}
}

// User returns a copy of the current user, or nil.
func (s *Service) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsAuthenticated reports whether a user is present (confirmed or optimistically trusted).
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsLoading reports whether Restore has not completed yet.
func (s *Service) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns the current state.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user.Clone(), Loading: s.loading}
}

// AccessToken returns the persisted access token, empty when anonymous.
// It makes the Service usable as the REST client's token source.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, state.KeyAccessToken)
	return token, err
}

// Restore rebuilds the session from persisted state. It never fails: the
// outcome is an authenticated, optimistically authenticated or anonymous
// session. Loading is false when it returns.
func (s *Service) Restore(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if !s.Hydrate(ctx) {
		return
	}
	if err := s.Revalidate(ctx); err != nil {
		s.log.Warn("session revalidation failed, keeping cached user", logger.Error(err))
	}
}

// Hydrate is the optimistic phase: it trusts the persisted user when a token
// exists next to it. A token without a readable user record is cleared.
func (s *Service) Hydrate(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, _, err := s.store.Get(ctx, state.KeyAccessToken)
	if err != nil {
		s.log.Warn("failed to read persisted session", logger.Error(err))
		return false
	}
	raw, hasUser, err := s.store.Get(ctx, state.KeyUser)
	if err != nil {
		s.log.Warn("failed to read persisted session", logger.Error(err))
		return false
	}

	if token == "" {
		if hasUser {
			s.clearLocked(ctx)
		}
		return false
	}

	var u domain.User
	if !hasUser || json.Unmarshal([]byte(raw), &u) != nil || u.ID == 0 {
		s.log.Warn("persisted token has no readable user, clearing session")
		s.clearLocked(ctx)
		return false
	}

	s.user = &u
	return true
}

// Revalidate is the authoritative phase: it asks the backend who owns the
// persisted token. Only a success overwrites the user; any failure leaves the
// current user untouched and is returned. Concurrent calls share one request.
func (s *Service) Revalidate(ctx context.Context) error {
	_, err, _ := s.revalidate.Do("me", func() (any, error) {
		return nil, s.revalidateOnce(ctx)
	})
	return err
}

func (s *Service) revalidateOnce(ctx context.Context) error {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return ErrNoSession
	}

	u, err := s.auth.Me(ctx, token)
	if err != nil {
		return err
	}
	if u == nil || u.ID == 0 {
		return &domain.APIError{Err: domain.ErrMalformedResponse}
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A login or logout may have happened while /auth/me was in flight.
	current, _, err := s.store.Get(ctx, state.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if current != token {
		return ErrSessionChanged
	}
	if err := s.store.Set(ctx, state.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = u.Clone()
	s.log.Debug("session revalidated", logger.Int64("user_id", u.ID))
	return nil
}

// Login exchanges credentials for a session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	payload, err := s.auth.Login(ctx, domain.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, authFailure(err, "login failed")
	}
	return s.establish(ctx, payload)
}

// Register creates an account and starts its session.
func (s *Service) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	payload, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, authFailure(err, "registration failed")
	}
	return s.establish(ctx, payload)
}

func (s *Service) establish(ctx context.Context, p *domain.AuthPayload) (*domain.User, error) {
	if p == nil || p.Tokens == nil || p.Tokens.AccessToken == "" || p.User == nil {
		return nil, &domain.AuthError{Kind: domain.AuthMalformed, Message: msgMissingCredentials}
	}

	raw, err := json.Marshal(p.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	values := map[string]string{
		state.KeyAccessToken: p.Tokens.AccessToken,
		state.KeyUser:        string(raw),
	}
	if p.Tokens.RefreshToken != "" {
		values[state.KeyRefreshToken] = p.Tokens.RefreshToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetMany(ctx, values); err != nil {
		s.clearLocked(ctx)
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if p.Tokens.RefreshToken == "" {
		if err := s.store.Remove(ctx, state.KeyRefreshToken); err != nil {
			s.log.Warn("failed to drop stale refresh token", logger.Error(err))
		}
	}
	s.user = p.User.Clone()
	s.loading = false
	s.log.Info("session established", logger.Int64("user_id", p.User.ID))
	return p.User.Clone(), nil
}

// Logout clears the session locally and returns. Revoking the old token on
// the backend happens in the background and its outcome is only logged; see Drain.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	token, _, err := s.store.Get(ctx, state.KeyAccessToken)
	if err != nil {
		s.log.Warn("failed to read access token before logout", logger.Error(err))
	}
	s.clearLocked(ctx)
	s.mu.Unlock()

	if token == "" {
		return
	}

	// Detached: the caller may be a request that ends as soon as we return.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revokeTimeout)
	s.revokes.Add(1)
	go func() {
		defer s.revokes.Done()
		defer cancel()
		if err := s.auth.Logout(rctx, token); err != nil {
			s.log.Debug("server-side logout failed", logger.Error(err))
		}
	}()
}

// Drain waits for background revokes until they finish or ctx is done.
// Short-lived processes call it before exiting.
func (s *Service) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.revokes.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("gave up waiting for server-side logout", logger.Error(ctx.Err()))
	}
}

// UpdateUser replaces the user with an authoritative record the caller
// already obtained (ex: profile edit). No network call.
func (s *Service) UpdateUser(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(&u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNoSession
	}
	if err := s.store.Set(ctx, state.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = u.Clone()
	return nil
}

// clearLocked drops the in-memory user and every auth key. Storage failures
// are logged: the in-memory session is cleared regardless.
func (s *Service) clearLocked(ctx context.Context) {
	s.user = nil
	if err := s.store.Remove(ctx, state.AuthKeys...); err != nil {
		s.log.Error("failed to clear persisted session", logger.Error(err))
	}
}

func authFailure(err error, generic string) error {
	var (
		ae  *domain.APIError
		msg = generic
	)
	switch {
	case domain.IsNetwork(err):
		return &domain.AuthError{Kind: domain.AuthTransport, Message: generic, Err: err}
	case errors.Is(err, domain.ErrMalformedResponse) && (!errors.As(err, &ae) || ae.Status < 300):
		return &domain.AuthError{Kind: domain.AuthMalformed, Message: msgMissingCredentials, Err: err}
	case errors.As(err, &ae):
		if ae.Message != "" {
			msg = ae.Message
		}
		return &domain.AuthError{Kind: domain.AuthRejected, Message: msg}
	default:
		return &domain.AuthError{Kind: domain.AuthRejected, Message: generic, Err: err}
	}
}
