package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when the origin sits behind a trusted proxy.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ParseAddr reads an address with or without a port, IPv6 brackets included.
// IPv4-mapped IPv6 addresses are unmapped so they match IPv4 rules.
func ParseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(strings.Trim(s, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// ClientAddr resolves the caller address. Proxy headers are only honoured
// with trustProxy; X-Forwarded-For contributes its left-most entry.
func ClientAddr(r *http.Request, trustProxy bool) (netip.Addr, bool) {
	if trustProxy {
		for _, h := range proxyHeaders {
			v := r.Header.Get(h)
			if first, _, found := strings.Cut(v, ","); found {
				v = first
			}
			if addr, ok := ParseAddr(v); ok {
				return addr, true
			}
		}
	}
	return ParseAddr(r.RemoteAddr)
}

// ClientIP is ClientAddr as a string, falling back to the raw RemoteAddr
// so rate limiting still keys unparsable callers somewhere.
func ClientIP(r *http.Request, trustProxy bool) string {
	if addr, ok := ClientAddr(r, trustProxy); ok {
		return addr.String()
	}
	return r.RemoteAddr
}

// IPMatcher matches single addresses and prefixes.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher parses entries such as "10.0.0.0/8" or "::1". Invalid entries
// are returned so callers can report them.
func NewIPMatcher(list []string) (*IPMatcher, []string) {
	m := &IPMatcher{}
	var invalid []string
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(s); err == nil {
			addr = addr.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		invalid = append(invalid, s)
	}
	return m, invalid
}

func (m *IPMatcher) IsEmpty() bool { return len(m.prefixes) == 0 }

func (m *IPMatcher) Contains(addr netip.Addr) bool {
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
