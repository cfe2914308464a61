// Package scheduler runs the periodic background jobs of the serve mode.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

// DefaultRevalidateInterval is used when no interval is configured.
const DefaultRevalidateInterval = 15 * time.Minute

// Revalidator is satisfied by *session.Service.
type Revalidator interface {
	Revalidate(ctx context.Context) error
}

// SessionRevalidator periodically confirms the cached user with the backend.
// Failures are logged and never evict the session.
type SessionRevalidator struct {
	session       Revalidator
	clock         clockwork.Clock
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
	done          chan struct{}
}

// NewSessionRevalidator creates a revalidator. manualTrigger may be nil.
func NewSessionRevalidator(
	s Revalidator,
	clock clockwork.Clock,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SessionRevalidator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultRevalidateInterval
	}
	return &SessionRevalidator{
		session:       s,
		clock:         clock,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		done:          make(chan struct{}),
	}
}

// Start begins the periodic revalidation loop.
func (sr *SessionRevalidator) Start(ctx context.Context) {
	ticker := sr.clock.NewTicker(sr.interval)
	go func() {
		defer close(sr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				sr.Run(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual session revalidation triggered")
				sr.Run(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the loop and waits for it to exit. Safe to call more than once.
func (sr *SessionRevalidator) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	<-sr.done
}

// Run performs one revalidation.
func (sr *SessionRevalidator) Run(ctx context.Context) {
	err := sr.session.Revalidate(ctx)
	switch {
	case err == nil:
		sr.logger.Debug("session revalidated")
	case errors.Is(err, session.ErrNoSession):
		sr.logger.Debug("no session to revalidate")
	default:
		sr.logger.Warn("session revalidation failed, keeping cached user", logger.Error(err))
	}
}
