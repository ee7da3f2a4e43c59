package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRS rejects clients outside the allowed IPs/CIDRs with 403. An
// empty list lets everything through. trustProxy should only be set behind
// a trusted reverse proxy or tunnel (e.g. cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}
	log.Debug("client allow-list enabled", logger.Int("rules", len(allowed)), logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client rejected", logger.String("client_ip", ip))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost rejects requests whose Host header matches none of the
// patterns. "*.example.com" matches any subdomain. Ports are ignored. An
// empty list lets everything through.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}
	log.Debug("host allow-list enabled", logger.Strings("hosts", allowedHosts))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := stripPort(r.Host)
			for _, pattern := range allowedHosts {
				if matchHost(host, stripPort(pattern)) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Debug("host rejected", logger.String("host", r.Host))
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

func stripPort(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}

func matchHost(host, pattern string) bool {
	host, pattern = strings.ToLower(host), strings.ToLower(pattern)
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}
	return false
}
