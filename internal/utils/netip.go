package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// hostOnly strips an optional port from "ip:port", "[v6]:port" or "ip".
func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ClientIP resolves the caller's address. Proxy headers are only honoured
// when trustProxy is set: CF-Connecting-IP, then the left-most
// X-Forwarded-For entry, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		for _, v := range []string{
			r.Header.Get("CF-Connecting-IP"),
			xff,
			r.Header.Get("X-Real-IP"),
		} {
			if ip := hostOnly(v); ip != "" {
				return ip
			}
		}
	}
	return hostOnly(r.RemoteAddr)
}

// IPMatcher matches addresses against a list of IPs and CIDRs.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher parses list, silently skipping invalid entries. A bare IP is
// treated as a single-address prefix.
func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			m.prefixes = append(m.prefixes, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *IPMatcher) Allow(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
