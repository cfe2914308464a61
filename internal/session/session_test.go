package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/state"
)

type fakeAuth struct {
	mu sync.Mutex

	login    func(domain.LoginInput) (*domain.AuthPayload, error)
	register func(domain.RegisterInput) (*domain.AuthPayload, error)
	me       func(token string) (*domain.User, error)
	logout   func(token string) error
	revoke   func(ctx context.Context, token string) error

	meCalls      int
	logoutTokens []string
}

func (f *fakeAuth) Login(_ context.Context, in domain.LoginInput) (*domain.AuthPayload, error) {
	return f.login(in)
}

func (f *fakeAuth) Register(_ context.Context, in domain.RegisterInput) (*domain.AuthPayload, error) {
	return f.register(in)
}

func (f *fakeAuth) Me(_ context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()
	return f.me(token)
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	f.logoutTokens = append(f.logoutTokens, token)
	f.mu.Unlock()
	if f.revoke != nil {
		return f.revoke(ctx, token)
	}
	if f.logout == nil {
		return nil
	}
	return f.logout(token)
}

var networkDown = &domain.NetworkError{Op: "GET /auth/me", Err: errors.New("connection refused")}

func persist(t *testing.T, store state.Storage, token string, u *domain.User) {
	t.Helper()
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetMany(context.Background(), map[string]string{
		state.KeyAccessToken:  token,
		state.KeyRefreshToken: "refresh",
		state.KeyUser:         string(raw),
	}); err != nil {
		t.Fatal(err)
	}
}

func persistedUser(t *testing.T, store state.Storage) *domain.User {
	t.Helper()
	raw, ok, err := store.Get(context.Background(), state.KeyUser)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatal(err)
	}
	return &u
}

func assertNoAuthKeys(t *testing.T, store state.Storage) {
	t.Helper()
	for _, k := range state.AuthKeys {
		if _, ok, _ := store.Get(context.Background(), k); ok {
			t.Errorf("key %q still persisted", k)
		}
	}
}

func TestRestore_KeepsCachedUserWhenRevalidationFails(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "cached"})
	auth := &fakeAuth{me: func(string) (*domain.User, error) { return nil, networkDown }}

	s := New(auth, store, nil)
	if !s.IsLoading() {
		t.Fatal("new session should be loading")
	}
	s.Restore(context.Background())

	if s.IsLoading() {
		t.Error("loading should be false after Restore")
	}
	u := s.User()
	if u == nil || u.ID != 1 || u.Username != "cached" {
		t.Fatalf("User() = %+v, want cached user", u)
	}
	if tok, _ := s.AccessToken(context.Background()); tok != "abc" {
		t.Errorf("token = %q, want abc", tok)
	}
}

func TestRestore_RejectionDoesNotEvict(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "cached"})
	auth := &fakeAuth{me: func(string) (*domain.User, error) {
		return nil, &domain.APIError{Status: 401, Message: "Invalid token"}
	}}

	s := New(auth, store, nil)
	s.Restore(context.Background())

	if !s.IsAuthenticated() {
		t.Fatal("a rejected revalidation must not evict the session")
	}
}

func TestRestore_RevalidationOverwrites(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "old"})
	auth := &fakeAuth{me: func(token string) (*domain.User, error) {
		if token != "abc" {
			t.Errorf("Me called with %q", token)
		}
		return &domain.User{ID: 1, Username: "new"}, nil
	}}

	s := New(auth, store, nil)
	s.Restore(context.Background())

	if got := s.User().Username; got != "new" {
		t.Errorf("in-memory username = %q, want new", got)
	}
	if got := persistedUser(t, store).Username; got != "new" {
		t.Errorf("persisted username = %q, want new", got)
	}
}

func TestRestore_Anonymous(t *testing.T) {
	auth := &fakeAuth{me: func(string) (*domain.User, error) {
		t.Error("Me must not be called without a token")
		return nil, nil
	}}
	s := New(auth, state.NewMemoryStore(), nil)
	s.Restore(context.Background())

	if s.IsAuthenticated() || s.IsLoading() {
		t.Fatalf("state = %+v, want anonymous and loaded", s.Snapshot())
	}
}

func TestHydrate_TokenWithoutReadableUserIsCleared(t *testing.T) {
	tests := []struct {
		name string
		user string
		set  bool
	}{
		{name: "missing user", set: false},
		{name: "corrupt user", user: "{not json", set: true},
		{name: "empty user", user: "{}", set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := state.NewMemoryStore()
			_ = store.Set(ctx, state.KeyAccessToken, "abc")
			_ = store.Set(ctx, state.KeyRefreshToken, "r")
			if tt.set {
				_ = store.Set(ctx, state.KeyUser, tt.user)
			}

			s := New(&fakeAuth{}, store, nil)
			if s.Hydrate(ctx) {
				t.Fatal("Hydrate() = true, want false")
			}
			if s.IsAuthenticated() {
				t.Fatal("user set without readable record")
			}
			assertNoAuthKeys(t, store)
		})
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	store := state.NewMemoryStore()
	auth := &fakeAuth{login: func(in domain.LoginInput) (*domain.AuthPayload, error) {
		return &domain.AuthPayload{
			User:   &domain.User{ID: 7, Username: "ada", Email: in.Email},
			Tokens: &domain.Tokens{AccessToken: "A", RefreshToken: "R"},
		}, nil
	}}
	s := New(auth, store, nil)

	u, err := s.Login(context.Background(), "ada@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != 7 || !s.IsAuthenticated() {
		t.Fatalf("user = %+v", u)
	}

	ctx := context.Background()
	if v, _, _ := store.Get(ctx, state.KeyAccessToken); v != "A" {
		t.Errorf("access token = %q", v)
	}
	if v, _, _ := store.Get(ctx, state.KeyRefreshToken); v != "R" {
		t.Errorf("refresh token = %q", v)
	}
	if persistedUser(t, store).Email != "ada@example.com" {
		t.Error("user record not persisted")
	}
}

func TestLogin_MissingAccessTokenLeavesStateUntouched(t *testing.T) {
	store := state.NewMemoryStore()
	auth := &fakeAuth{login: func(domain.LoginInput) (*domain.AuthPayload, error) {
		return &domain.AuthPayload{User: &domain.User{ID: 1}, Tokens: &domain.Tokens{}}, nil
	}}
	s := New(auth, store, nil)

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	if domain.AuthKindOf(err) != domain.AuthMalformed {
		t.Fatalf("err = %v, want malformed AuthError", err)
	}
	if s.IsAuthenticated() {
		t.Error("user set after malformed login")
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d keys, want 0", store.Len())
	}
}

func TestLogin_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    domain.AuthKind
		message string
	}{
		{
			name:    "rejected with backend text",
			err:     &domain.APIError{Status: 401, Message: "Invalid credentials"},
			kind:    domain.AuthRejected,
			message: "Invalid credentials",
		},
		{
			name:    "rejected without text",
			err:     &domain.APIError{Status: 400},
			kind:    domain.AuthRejected,
			message: "login failed",
		},
		{
			name:    "transport",
			err:     networkDown,
			kind:    domain.AuthTransport,
			message: "login failed",
		},
		{
			name:    "undecodable error page",
			err:     &domain.APIError{Status: 502, Err: domain.ErrMalformedResponse},
			kind:    domain.AuthRejected,
			message: "login failed",
		},
		{
			name:    "gateway error text",
			err:     &domain.APIError{Status: 502, Message: "Bad Gateway"},
			kind:    domain.AuthRejected,
			message: "Bad Gateway",
		},
		{
			name:    "undecodable reply",
			err:     &domain.APIError{Status: 200, Err: domain.ErrMalformedResponse},
			kind:    domain.AuthMalformed,
			message: msgMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewMemoryStore()
			auth := &fakeAuth{login: func(domain.LoginInput) (*domain.AuthPayload, error) { return nil, tt.err }}
			s := New(auth, store, nil)

			_, err := s.Login(context.Background(), "a@b.c", "pw")
			var ae *domain.AuthError
			if !errors.As(err, &ae) {
				t.Fatalf("err = %T %v, want *AuthError", err, err)
			}
			if ae.Kind != tt.kind || ae.Message != tt.message {
				t.Errorf("got %v %q, want %v %q", ae.Kind, ae.Message, tt.kind, tt.message)
			}
			if store.Len() != 0 || s.IsAuthenticated() {
				t.Error("failed login mutated state")
			}
		})
	}
}

func TestRegister_CarriesFullName(t *testing.T) {
	auth := &fakeAuth{register: func(in domain.RegisterInput) (*domain.AuthPayload, error) {
		return &domain.AuthPayload{
			User:   &domain.User{ID: 2, Username: in.Username, FullName: in.FullName},
			Tokens: &domain.Tokens{AccessToken: "A", RefreshToken: "R"},
		}, nil
	}}
	s := New(auth, state.NewMemoryStore(), nil)

	name := "Ada Lovelace"
	u, err := s.Register(context.Background(), domain.RegisterInput{
		Username: "ada", Email: "ada@example.com", Password: "secret123", FullName: &name,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.DisplayName() != name {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}
}

func TestRegister_GenericMessage(t *testing.T) {
	auth := &fakeAuth{register: func(domain.RegisterInput) (*domain.AuthPayload, error) {
		return nil, &domain.APIError{Status: 409}
	}}
	s := New(auth, state.NewMemoryStore(), nil)

	_, err := s.Register(context.Background(), domain.RegisterInput{Username: "ada"})
	var ae *domain.AuthError
	if !errors.As(err, &ae) || ae.Message != "registration failed" {
		t.Fatalf("err = %v", err)
	}
}

func TestLogout_AlwaysClears(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "ada"})
	auth := &fakeAuth{
		me:     func(string) (*domain.User, error) { return nil, networkDown },
		logout: func(string) error { return errors.New("revoke exploded") },
	}
	s := New(auth, store, nil)
	s.Restore(context.Background())

	s.Logout(context.Background())

	if s.User() != nil {
		t.Error("user still set after Logout")
	}
	assertNoAuthKeys(t, store)
	s.Drain(context.Background())
	if len(auth.logoutTokens) != 1 || auth.logoutTokens[0] != "abc" {
		t.Errorf("revoke called with %v, want the token held before clearing", auth.logoutTokens)
	}
}

func TestLogout_AnonymousSkipsRevoke(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, state.NewMemoryStore(), nil)
	s.Logout(context.Background())
	s.Drain(context.Background())

	if len(auth.logoutTokens) != 0 {
		t.Errorf("revoke called without a token: %v", auth.logoutTokens)
	}
}

func TestLogout_DoesNotWaitForRevoke(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "ada"})

	release := make(chan struct{})
	revokeErr := make(chan error, 1)
	auth := &fakeAuth{revoke: func(ctx context.Context, _ string) error {
		<-release
		revokeErr <- ctx.Err()
		return nil
	}}
	s := New(auth, store, nil)
	if !s.Hydrate(context.Background()) {
		t.Fatal("Hydrate failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		s.Logout(ctx)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Logout blocked on the backend revoke")
	}
	if s.IsAuthenticated() {
		t.Error("session still authenticated after Logout")
	}
	assertNoAuthKeys(t, store)

	// The caller going away must not abort the revoke.
	cancel()
	close(release)
	s.Drain(context.Background())
	if err := <-revokeErr; err != nil {
		t.Errorf("revoke ran with a cancelled context: %v", err)
	}
}

func TestDrain_GivesUp(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "ada"})
	block := make(chan struct{})
	defer close(block)
	s := New(&fakeAuth{revoke: func(context.Context, string) error { <-block; return nil }}, store, nil)
	s.Hydrate(context.Background())
	s.Logout(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	s.Drain(ctx)
	if time.Since(start) > time.Second {
		t.Error("Drain ignored its context")
	}
}

func TestUpdateUser_Idempotent(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "ada"})
	s := New(&fakeAuth{}, store, nil)
	if !s.Hydrate(context.Background()) {
		t.Fatal("Hydrate failed")
	}

	name := "Ada L."
	u := domain.User{ID: 1, Username: "ada", FullName: &name}

	if err := s.UpdateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	first, _, _ := store.Get(context.Background(), state.KeyUser)
	once := s.User()

	if err := s.UpdateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	second, _, _ := store.Get(context.Background(), state.KeyUser)

	if first != second {
		t.Errorf("persisted record changed: %s vs %s", first, second)
	}
	if s.User().DisplayName() != once.DisplayName() || s.User().ID != once.ID {
		t.Error("in-memory user changed on second update")
	}
}

func TestUpdateUser_RequiresSession(t *testing.T) {
	s := New(&fakeAuth{}, state.NewMemoryStore(), nil)
	if err := s.UpdateUser(context.Background(), domain.User{ID: 1}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestRevalidate_DiscardedWhenSessionChanged(t *testing.T) {
	store := state.NewMemoryStore()
	persist(t, store, "abc", &domain.User{ID: 1, Username: "ada"})

	var s *Service
	auth := &fakeAuth{me: func(string) (*domain.User, error) {
		// The user logs out while /auth/me is in flight.
		s.Logout(context.Background())
		return &domain.User{ID: 1, Username: "resurrected"}, nil
	}}
	s = New(auth, store, nil)
	s.Hydrate(context.Background())

	if err := s.Revalidate(context.Background()); !errors.Is(err, ErrSessionChanged) {
		t.Fatalf("err = %v, want ErrSessionChanged", err)
	}
	if s.User() != nil {
		t.Error("revalidation resurrected a logged-out session")
	}
	assertNoAuthKeys(t, store)
}

func TestRevalidate_NoSession(t *testing.T) {
	s := New(&fakeAuth{}, state.NewMemoryStore(), nil)
	if err := s.Revalidate(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}
