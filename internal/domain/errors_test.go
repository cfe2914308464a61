package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthErrorUnwrap(t *testing.T) {
	netErr := &NetworkError{Op: "POST /auth/login", Err: errors.New("connection refused")}
	err := fmt.Errorf("login: %w", &AuthError{Kind: AuthTransport, Message: "login failed", Err: netErr})

	if got := AuthKindOf(err); got != AuthTransport {
		t.Errorf("AuthKindOf() = %v, want %v", got, AuthTransport)
	}
	if !IsNetwork(err) {
		t.Error("IsNetwork() = false, want true through AuthError")
	}
	if AuthKindOf(errors.New("plain")) != 0 {
		t.Error("AuthKindOf(plain) should be 0")
	}
}

func TestEnvelopeReason(t *testing.T) {
	tests := []struct {
		name string
		env  *Envelope[User]
		want string
	}{
		{name: "nil envelope", env: nil, want: "fallback"},
		{name: "error wins", env: &Envelope[User]{Error: "bad creds", Message: "ignored"}, want: "bad creds"},
		{name: "message next", env: &Envelope[User]{Message: "try later"}, want: "try later"},
		{name: "fallback", env: &Envelope[User]{}, want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Reason("fallback"); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIErrorUnauthorized(t *testing.T) {
	for status, want := range map[int]bool{401: true, 403: true, 500: false, 400: false} {
		e := &APIError{Status: status, Message: "x"}
		if got := e.Unauthorized(); got != want {
			t.Errorf("APIError{%d}.Unauthorized() = %v, want %v", status, got, want)
		}
	}
}

func TestUserClone(t *testing.T) {
	name := "Ada"
	u := &User{ID: 1, Username: "ada", FullName: &name}
	c := u.Clone()
	*c.FullName = "Grace"

	if *u.FullName != "Ada" {
		t.Errorf("Clone() shares FullName pointer, original now %q", *u.FullName)
	}
	if u.DisplayName() != "Ada" {
		t.Errorf("DisplayName() = %q, want Ada", u.DisplayName())
	}
	if (&User{Username: "bob"}).DisplayName() != "bob" {
		t.Error("DisplayName() should fall back to username")
	}
}

func TestAPIErrorMessageFallback(t *testing.T) {
	tests := []struct {
		err  *APIError
		want string
	}{
		{&APIError{Status: 400, Message: "bad url"}, "bad url (status 400)"},
		{&APIError{Status: 502}, "Bad Gateway (status 502)"},
		{&APIError{Status: 200, Err: ErrMalformedResponse}, "malformed response body (status 200)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !errors.Is(&APIError{Err: ErrMalformedResponse}, ErrMalformedResponse) {
		t.Error("APIError should unwrap to ErrMalformedResponse")
	}
}
