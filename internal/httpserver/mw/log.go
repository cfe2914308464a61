package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

// Log writes one line per request. Server errors log at error level, client
// errors at warn, and probe traffic at debug.
func Log(log logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("http_request", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("http_request", fields...)
			case isProbe(r.URL.Path):
				log.Debug("http_request", fields...)
			default:
				log.Info("http_request", append(fields, logger.String("user_agent", r.UserAgent()))...)
			}
		})
	}
}

func isProbe(path string) bool {
	return path == "/healthz" || path == "/readyz"
}
