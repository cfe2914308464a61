package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// UsersAPI covers /users.
type UsersAPI struct{ c *Client }

// Users returns the user endpoint group.
func (c *Client) Users() *UsersAPI { return &UsersAPI{c: c} }

// Profile returns the caller's profile including bookmark counters.
func (u *UsersAPI) Profile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, request{method: http.MethodGet, path: "/users/profile", resource: "profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile edits display name and avatar and returns the authoritative record.
func (u *UsersAPI) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	if err := u.c.do(ctx, request{method: http.MethodPut, path: "/users/profile", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the caller's password.
func (u *UsersAPI) ChangePassword(ctx context.Context, in domain.PasswordChange) error {
	return u.c.do(ctx, request{method: http.MethodPut, path: "/users/password", body: in}, nil)
}

// PublicProfile returns another user's public profile.
func (u *UsersAPI) PublicProfile(ctx context.Context, username string) (*domain.User, error) {
	var out domain.User
	r := request{
		method:   http.MethodGet,
		path:     "/users/" + url.PathEscape(username),
		resource: "user",
		id:       username,
	}
	if err := u.c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
