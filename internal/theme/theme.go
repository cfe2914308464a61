// Package theme persists the light/dark preference.
package theme

import (
	"context"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/state"
)

// Preference reads and writes the theme key of the state store.
type Preference struct {
	store state.Storage
	log   logger.Logger
}

// New returns a Preference backed by store.
func New(store state.Storage, log logger.Logger) *Preference {
	if log == nil {
		log = logger.NewNop()
	}
	return &Preference{store: store, log: log}
}

// Get returns the persisted theme, light when missing, unknown or unreadable.
func (p *Preference) Get(ctx context.Context) domain.Theme {
	raw, ok, err := p.store.Get(ctx, state.KeyTheme)
	if err != nil {
		p.log.Warn("failed to read theme preference", logger.Error(err))
		return domain.ThemeLight
	}
	if !ok {
		return domain.ThemeLight
	}
	t, known := domain.ParseTheme(raw)
	if !known {
		p.log.Debug("ignoring unknown theme", logger.String("theme", raw))
	}
	return t
}

// Set persists t.
func (p *Preference) Set(ctx context.Context, t domain.Theme) error {
	if _, ok := domain.ParseTheme(string(t)); !ok {
		return &domain.ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	return p.store.Set(ctx, state.KeyTheme, string(t))
}

// Toggle flips the persisted theme and returns the new value.
func (p *Preference) Toggle(ctx context.Context) (domain.Theme, error) {
	next := p.Get(ctx).Toggle()
	if err := p.Set(ctx, next); err != nil {
		return p.Get(ctx), err
	}
	return next, nil
}
