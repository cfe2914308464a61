package domain

// User is the identity record returned by the backend.
// Field names follow the backend JSON contract.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	CreatedAt string  `json:"created_at"`

	// Optional, only present on some endpoints (profile, /auth/me).
	LastLogin       *string `json:"last_login,omitempty"`
	TotalBookmarks  *int    `json:"total_bookmarks,omitempty"`
	PublicBookmarks *int    `json:"public_bookmarks,omitempty"`
}

// DisplayName returns the full name when set, otherwise the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// Clone returns a deep copy so callers never share pointers with the session.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.FullName = cloneString(u.FullName)
	c.AvatarURL = cloneString(u.AvatarURL)
	c.LastLogin = cloneString(u.LastLogin)
	c.TotalBookmarks = cloneInt(u.TotalBookmarks)
	c.PublicBookmarks = cloneInt(u.PublicBookmarks)
	return &c
}

// Tokens is the credential pair issued on login and registration.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthPayload is the data of a successful login or register call.
type AuthPayload struct {
	User   *User   `json:"user"`
	Tokens *Tokens `json:"tokens"`
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the editable part of a user profile.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// PasswordChange is the body of a password change request.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
