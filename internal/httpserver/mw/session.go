package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// SessionChecker is satisfied by *session.Service.
type SessionChecker interface {
	IsAuthenticated() bool
}

// RequireSession answers 401 while the session is anonymous.
func RequireSession(s SessionChecker, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAuthenticated() {
				log.Debugf("RequireSession: %s %s REJECTED (anonymous)", r.Method, r.URL.Path)
				reject(w, http.StatusUnauthorized, "login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
