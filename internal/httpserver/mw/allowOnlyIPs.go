package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

// AllowOnlyCIDRS guards the infra routes. An empty list lets everything through.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m, invalid := utils.NewIPMatcher(allowed)
	for _, s := range invalid {
		log.Warn("ignoring invalid allowed CIDR", logger.String("entry", s))
	}
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := utils.ClientAddr(r, trustProxy)
			if !ok || !m.Contains(addr) {
				log.Debug("client address rejected",
					logger.String("addr", utils.ClientIP(r, trustProxy)),
					logger.String("path", r.URL.Path))
				reject(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
