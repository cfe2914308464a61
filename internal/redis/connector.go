// Package redis opens the Redis connection behind the shared state backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// urgentWindow is the remaining budget under which retries log at error level.
const urgentWindow = 10 * time.Second

// ConnectOptions defines the client settings and the startup retry policy.
type ConnectOptions struct {
	Addr           string        // Redis address (ex: "localhost:6379")
	User           string        // Optional username
	Password       string        // Optional password
	RedisDB        int           // Redis DB number
	DialTimeout    time.Duration // Redis dial timeout
	ReadTimeout    time.Duration // Redis read timeout
	WriteTimeout   time.Duration // Redis write timeout
	PoolSize       int           // Redis connection pool size
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, doubles each attempt)
	MaxWait        time.Duration // Cap of the wait between retries (ex: 10s)
	PingTimeout    time.Duration // Timeout of each ping attempt (ex: 2s)
	WarnThreshold  int           // Attempts logged at warn level before escalating to error
}

// FromConfig maps the redis block of the configuration.
func FromConfig(cfg *config.Config) ConnectOptions {
	return ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// validate reports every invalid retry setting at once.
func (o ConnectOptions) validate() error {
	var errs []error
	if o.Addr == "" {
		errs = append(errs, errors.New("Addr is empty"))
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"ConnectTimeout", o.ConnectTimeout},
		{"RetryInterval", o.RetryInterval},
		{"MaxWait", o.MaxWait},
		{"PingTimeout", o.PingTimeout},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", d.name, d.value))
		}
	}
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

// New creates the Redis client and pings it until it answers, ConnectTimeout
// elapses or ctx is cancelled. The client is closed on failure.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := waitReady(ctx, client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// backoff doubles the wait up to max.
type backoff struct {
	next, max time.Duration
}

func (b *backoff) step() time.Duration {
	d := b.next
	if b.next *= 2; b.next > b.max {
		b.next = b.max
	}
	return min(d, b.max)
}

func waitReady(ctx context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis state backend", logger.Duration("timeout", opts.ConnectTimeout))
	start := time.Now()
	b := backoff{next: opts.RetryInterval, max: opts.MaxWait}

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis state backend after retry",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("connected to redis state backend")
			}
			return nil
		}

		wait := b.step()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("elapsed", time.Since(start)),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
		}

		remaining := time.Until(deadlineOf(ctx))
		switch {
		case remaining < urgentWindow, attempt > opts.WarnThreshold:
			log.Error("redis still unavailable, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("remaining", remaining),
				logger.Error(err))
		default:
			log.Warn("redis connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("waited", wait),
				logger.Error(err))
		}
	}
}

func deadlineOf(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}
