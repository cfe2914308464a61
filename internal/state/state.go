// Package state is the client-local key/value store that survives restarts.
// It plays the role a browser's local storage plays for a web client.
package state

import "context"

// Persisted keys.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyTheme        = "theme"
)

// AuthKeys are owned by the session store and always cleared together.
var AuthKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Storage is a flat string key/value store.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a single key.
	Set(ctx context.Context, key, value string) error
	// SetMany writes several keys in one step: all or none are visible.
	SetMany(ctx context.Context, values map[string]string) error
	// Remove deletes keys; missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}
