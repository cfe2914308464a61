package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/marks/internal/api"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
	"github.com/MrSnakeDoc/marks/internal/theme"
	"github.com/MrSnakeDoc/marks/internal/version"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Build             version.Info                    // Reported by /healthz
	TimeNow           func() time.Time                // for testing, defaults to time.Now
	AllowedHosts      []string                        // Host headers allowed to access the server
	AllowedCIDRS      []string                        // IPs allowed to access healthz/readyz/infra
	TrustProxy        bool                            // true if running behind a trusted reverse proxy
	API               *api.Client                     // Backend REST client (token source is Session)
	Session           *session.Service                // Process-wide session
	Theme             *theme.Preference               // Persisted theme preference
	StateBackend      string                          // file, redis or memory
	StateCheck        func(ctx context.Context) error // Reachability of the state store
	RevalidateTrigger chan struct{}                   // Manual session revalidation
	AuthRateLimit     mw.RateLimitConfig              // Applied to login and register
	PublicLimit       int                             // Page size of the public feed
	PopularTags       int                             // Size of the public tag cloud
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
