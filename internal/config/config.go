package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// State backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	APIURL      string        // backend base URL (ex: http://localhost:5000/api)
	HTTPTimeout time.Duration // per-request timeout for backend calls

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StateBackend   string // "file" | "redis" | "memory"
	StateFile      string // path of the JSON state file (file backend)
	StateNamespace string // key namespace, lets several sessions share one redis

	SearchDebounce time.Duration // quiet period before a typed query is sent (default: 300ms)
	PublicLimit    int           // page size of the public feed
	PopularTags    int           // number of popular tags requested

	// serve mode
	ListenPort         string        // ex: ":8080"
	ShutdownTimeout    time.Duration // ex: 5s
	RevalidateInterval time.Duration // periodic /auth/me check (default: 15m)
	AllowedHosts       []string      // optional, restrict access to specific Host headers
	AllowedCIDRS       []string      // optional, restrict access to specific IPs/CIDRs
	TrustProxy         bool          // true => trust X-Forwarded-For headers
	AuthRateBurst      int           // token bucket size for login/register
	AuthRatePerMin     int           // refill rate for login/register

	// Redis (redis backend only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		APIURL:      strings.TrimRight(getenv("MARKS_API_URL", "http://localhost:5000/api"), "/"),
		HTTPTimeout: mustDuration("MARKS_HTTP_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("MARKS_LOG_LEVEL", "warn"),
		PrettyLog: mustBool("MARKS_PRETTY_LOG", true),

		// Persisted state
		StateBackend:   strings.ToLower(getenv("MARKS_STATE_BACKEND", BackendFile)),
		StateFile:      getenv("MARKS_STATE_FILE", defaultStateFile()),
		StateNamespace: getenv("MARKS_STATE_NAMESPACE", "default"),

		// Search & listings
		SearchDebounce: mustDuration("MARKS_SEARCH_DEBOUNCE", 300*time.Millisecond),
		PublicLimit:    getenvInt("MARKS_PUBLIC_LIMIT", 50),
		PopularTags:    getenvInt("MARKS_POPULAR_TAGS", 20),

		// Server settings
		ListenPort:         getenv("MARKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout:    mustDuration("MARKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RevalidateInterval: mustDuration("MARKS_REVALIDATE_INTERVAL", 15*time.Minute),
		AllowedHosts:       splitAndTrim(getenv("MARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS:       parseAllowedIPs(getenv("MARKS_ALLOWED_CIDRS", "")),
		TrustProxy:         mustBool("MARKS_TRUST_PROXY", false),
		AuthRateBurst:      getenvInt("MARKS_AUTH_RATE_BURST", 10),
		AuthRatePerMin:     getenvInt("MARKS_AUTH_RATE_PER_MIN", 10),
	}

	if cfg.StateBackend == BackendRedis {
		loadRedis(cfg)
	}

	return cfg
}

// loadRedis fills the Redis block; only called when the redis backend is selected.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("MARKS_REDIS_ADDR")
	cfg.RedisUser = getenv("MARKS_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("MARKS_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("MARKS_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)
}

// Validate rejects combinations Load cannot catch on its own (flags applied later).
func (c *Config) Validate() error {
	switch c.StateBackend {
	case BackendFile:
		if c.StateFile == "" {
			return fmt.Errorf("state file path is empty")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis backend selected but MARKS_REDIS_ADDR is empty")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown state backend %q (want file, redis or memory)", c.StateBackend)
	}
	if c.APIURL == "" {
		return fmt.Errorf("api url is empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0, got %v", c.HTTPTimeout)
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("search debounce must be > 0, got %v", c.SearchDebounce)
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	return c
}

// defaultStateFile is $XDG_CONFIG_HOME/marks/state.json (or the OS equivalent).
func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".marks-state.json")
	}
	return filepath.Join(dir, "marks", "state.json")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
