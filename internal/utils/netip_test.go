package utils

import (
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10.0.0.1", "10.0.0.1", true},
		{"10.0.0.1:443", "10.0.0.1", true},
		{"[::1]:8080", "::1", true},
		{"::ffff:192.168.1.5", "192.168.1.5", true},
		{" 2001:db8::1 ", "2001:db8::1", true},
		{"", "", false},
		{"not-an-ip", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAddr(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseAddr(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("ParseAddr(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		trust   bool
		want    string
	}{
		{"remote addr", nil, false, "192.0.2.10"},
		{"headers ignored without trust", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "192.0.2.10"},
		{"cloudflare first", map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.9"}, true, "198.51.100.1"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.7"}, true, "203.0.113.7"},
		{"garbage header falls through", map[string]string{"X-Forwarded-For": "unknown"}, true, "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "192.0.2.10:51000"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trust); got != tt.want {
				t.Errorf("ClientIP() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m, invalid := NewIPMatcher([]string{"192.168.1.0/24", "::1", " ", "bogus", "10.1.2.3"})
	if len(invalid) != 1 || invalid[0] != "bogus" {
		t.Errorf("invalid = %q, want [bogus]", invalid)
	}
	if m.IsEmpty() {
		t.Fatal("matcher is empty")
	}

	tests := map[string]bool{
		"192.168.1.77": true,
		"192.168.2.1":  false,
		"::1":          true,
		"10.1.2.3":     true,
		"10.1.2.4":     false,
	}
	for s, want := range tests {
		if got := m.Contains(netip.MustParseAddr(s)); got != want {
			t.Errorf("Contains(%s) = %v, want %v", s, got, want)
		}
	}
}
