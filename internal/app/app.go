package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/api"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/httpserver"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/redis"
	"github.com/MrSnakeDoc/marks/internal/scheduler"
	"github.com/MrSnakeDoc/marks/internal/search"
	"github.com/MrSnakeDoc/marks/internal/session"
	"github.com/MrSnakeDoc/marks/internal/sources/homepage"
	"github.com/MrSnakeDoc/marks/internal/state"
	redisstore "github.com/MrSnakeDoc/marks/internal/store/redis"
	"github.com/MrSnakeDoc/marks/internal/theme"
	"github.com/MrSnakeDoc/marks/internal/version"
)

// App wires the client core: persisted state, REST client, session and theme.
// The CLI builds one per invocation; serve mode keeps it for the process lifetime.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	clock       clockwork.Clock
	store       state.Storage
	stateCheck  func(ctx context.Context) error
	redisClient *goredis.Client

	API     *api.Client
	Session *session.Service
	Theme   *theme.Preference
}

// New builds the App. Nothing talks to the backend until Restore or a command runs.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loggerClient.Debugf("config: %+v", cfg.Redacted())

	a := &App{
		cfg:        cfg,
		logger:     loggerClient,
		clock:      clockwork.NewRealClock(),
		stateCheck: func(context.Context) error { return nil },
	}
	if err := a.openState(ctx); err != nil {
		return nil, err
	}

	// The client reads its bearer from the session, and the session logs in
	// through the client, so the token source resolves the session lazily.
	a.API = api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(loggerClient),
		api.WithTokenSource(api.TokenSourceFunc(func(ctx context.Context) (string, error) {
			return a.Session.AccessToken(ctx)
		})),
	)
	a.Session = session.New(a.API.Auth(), a.store, loggerClient)
	a.Theme = theme.New(a.store, loggerClient)

	return a, nil
}

func (a *App) openState(ctx context.Context) error {
	switch a.cfg.StateBackend {
	case config.BackendMemory:
		a.store = state.NewMemoryStore()
		a.logger.Debug("using in-memory state, nothing survives the process")

	case config.BackendRedis:
		a.logger.Infof("Connecting to Redis at %s", a.cfg.RedisAddr)
		client, err := redis.New(ctx, redis.FromConfig(a.cfg), a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		rs := redisstore.NewStore(client, a.cfg.StateNamespace)
		a.redisClient = client
		a.store = rs
		a.stateCheck = rs.Ping

	default:
		fs := state.NewFileStore(a.cfg.StateFile)
		a.store = fs
		a.stateCheck = func(ctx context.Context) error {
			_, _, err := fs.Get(ctx, state.KeyTheme)
			return err
		}
		a.logger.Debug("using file state", logger.String("path", fs.Path()))
	}
	return nil
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the process logger.
func (a *App) Logger() logger.Logger { return a.logger }

// Restore rebuilds the session from persisted state.
func (a *App) Restore(ctx context.Context) {
	a.Session.Restore(ctx)
}

// NewSearcher returns a Searcher over the caller's bookmarks, or the public
// feed when public is set.
func (a *App) NewSearcher(ctx context.Context, public bool, sink search.Sink) *search.Searcher {
	fetch := search.OwnerFetcher(a.API.Bookmarks())
	if public {
		fetch = search.PublicFetcher(a.API.Public(), a.cfg.PublicLimit)
	}
	return search.New(ctx, a.clock, a.cfg.SearchDebounce, fetch, sink, a.logger)
}

// NewImporter returns a Homepage importer creating bookmarks through the API.
func (a *App) NewImporter() *homepage.Importer {
	return homepage.NewImporter(a.API.Bookmarks(), a.logger)
}

// drainTimeout bounds how long Close waits for a background logout.
const drainTimeout = 5 * time.Second

// Close finishes background session work and releases the state backend.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	a.Session.Drain(ctx)
	cancel()

	if a.redisClient == nil {
		return
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Warnf("failed to close redis: %v", err)
		return
	}
	a.logger.Debug("redis closed cleanly")
}

// Serve runs the BFF until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	build := version.Get()
	a.logger.Infof("🚀 Starting marks %s on %s", build.Version, a.cfg.ListenPort)
	a.logger.Info(build.String())

	a.Restore(ctx)

	revalidateTrigger := make(chan struct{}, 1)
	revalidator := scheduler.NewSessionRevalidator(
		a.Session,
		a.clock,
		a.logger,
		a.cfg.RevalidateInterval,
		revalidateTrigger,
	)

	d := deps.Deps{
		Logger:            a.logger,
		StartTime:         time.Now(),
		Build:             build,
		TimeNow:           time.Now,
		AllowedHosts:      a.cfg.AllowedHosts,
		AllowedCIDRS:      a.cfg.AllowedCIDRS,
		TrustProxy:        a.cfg.TrustProxy,
		API:               a.API,
		Session:           a.Session,
		Theme:             a.Theme,
		StateBackend:      a.cfg.StateBackend,
		StateCheck:        a.stateCheck,
		RevalidateTrigger: revalidateTrigger,
		AuthRateLimit: mw.RateLimitConfig{
			Burst:             a.cfg.AuthRateBurst,
			RefillPerIPPerMin: a.cfg.AuthRatePerMin,
			TrustProxy:        a.cfg.TrustProxy,
		},
		PublicLimit: a.cfg.PublicLimit,
		PopularTags: a.cfg.PopularTags,
	}
	server := httpserver.New(a.cfg, a.logger, d)

	revalidator.Start(ctx)
	a.logger.Info("session revalidator started",
		logger.Duration("interval", a.cfg.RevalidateInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		revalidator.Stop()
		return err
	}

	revalidator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ marks stopped cleanly")
	return nil
}
