// Package format renders bookmark fields for terminal output.
package format

import (
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

const (
	UnknownDate    = "Unknown date"
	InvalidURL     = "Invalid URL"
	DefaultFavicon = "/default-favicon.png"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp layouts the backend emits.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RelativeDate renders s relative to now ("3 days ago").
func RelativeDate(s string, now time.Time) string {
	t, ok := ParseTime(s)
	if !ok {
		return UnknownDate
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Domain returns the hostname of raw without its www. prefix.
func Domain(raw string) string {
	u, ok := parse(raw)
	if !ok {
		return InvalidURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Truncate shortens s to n runes and appends "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 0 {
		n = 0
	}
	return string(r[:n]) + "..."
}

// IsValidURL mirrors domain.IsValidURL for template use.
func IsValidURL(raw string) bool {
	return domain.IsValidURL(raw)
}

// FaviconURL guesses the favicon location of raw.
func FaviconURL(raw string) string {
	u, ok := parse(raw)
	if !ok || u.Host == "" {
		return DefaultFavicon
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}

// Count renders n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

func parse(raw string) (*url.URL, bool) {
	if !domain.IsValidURL(raw) {
		return nil, false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return u, true
}
