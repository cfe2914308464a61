package api

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// AuthAPI covers /auth.
type AuthAPI struct{ c *Client }

// Auth returns the auth endpoint group.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Register creates an account and returns the new user with its tokens.
func (a *AuthAPI) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthPayload, error) {
	var out domain.AuthPayload
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a user and tokens.
func (a *AuthAPI) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthPayload, error) {
	var out domain.AuthPayload
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the server-side session of token.
func (a *AuthAPI) Logout(ctx context.Context, token string) error {
	return a.c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", bearer: token}, nil)
}

// Me returns the user owning token.
func (a *AuthAPI) Me(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/auth/me", bearer: token, resource: "user"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
