package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/marks/internal/utils"
)

// RateLimitConfig sizes the per-client token buckets of RateLimit. Zero
// values fall back to a burst of 1, one token per minute and a 15m idle TTL.
type RateLimitConfig struct {
	Burst             int             // requests allowed back to back
	RefillPerIPPerMin int             // tokens regained per minute
	MaxEntries        int             // sweep early once this many clients are tracked
	IdleTTL           time.Duration   // forget clients idle this long
	TrustProxy        bool            // key on proxy headers instead of RemoteAddr
	Clock             clockwork.Clock // defaults to the real clock
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ipLimiters keeps one token bucket per client address.
type ipLimiters struct {
	cfg   RateLimitConfig
	every rate.Limit

	mu      sync.Mutex
	clients map[string]*client
	sweepAt time.Time
}

func newIPLimiters(cfg RateLimitConfig) *ipLimiters {
	cfg = cfg.withDefaults()
	return &ipLimiters{
		cfg:     cfg,
		every:   rate.Limit(float64(cfg.RefillPerIPPerMin) / 60),
		clients: make(map[string]*client),
		sweepAt: cfg.Clock.Now().Add(cfg.IdleTTL),
	}
}

// take consumes one token for key. When refused it returns how long until
// the next token is available.
func (l *ipLimiters) take(key string, now time.Time) (ok bool, remaining int, retry time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if full || now.After(l.sweepAt) {
		l.sweep(now)
	}

	c, found := l.clients[key]
	if !found {
		c = &client{lim: rate.NewLimiter(l.every, l.cfg.Burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	if c.lim.AllowN(now, 1) {
		return true, int(c.lim.TokensAt(now)), 0
	}
	missing := 1 - c.lim.TokensAt(now)
	return false, 0, time.Duration(missing / float64(l.every) * float64(time.Second))
}

func (l *ipLimiters) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.sweepAt = now.Add(l.cfg.IdleTTL)
}

// RateLimit refuses bursts from one client address with 429 and Retry-After.
// Login and register sit behind it.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newIPLimiters(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Clock.Now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(max(1, int(math.Ceil(retry.Seconds())))))
				reject(w, http.StatusTooManyRequests, "too many attempts, retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
