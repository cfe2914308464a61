// Package httpserver serves the shared session and the backend API to browsers.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/marks/internal/httpserver/routes"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// slack is added on top of the backend timeout for local work around a call.
const slack = 2 * time.Second

type Server struct {
	http   *http.Server
	logger logger.Logger
}

// NewRouter installs the global middlewares and every registered route.
func NewRouter(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		mw.Log(loggerClient, d.TrustProxy),
		middleware.Recoverer,
		middleware.CleanPath,
		middleware.GetHead,
		mw.EnforceHost(d.AllowedHosts, loggerClient),
		middleware.Timeout(cfg.HTTPTimeout+slack),
	)

	routes.RegisterAll(r, d)
	return r
}

func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.ListenPort,
			Handler:           NewRouter(cfg, loggerClient, d),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      cfg.HTTPTimeout + 2*slack,
			IdleTimeout:       time.Minute,
			MaxHeaderBytes:    1 << 20,
		},
		logger: loggerClient,
	}
}

// Start blocks until the server fails or is stopped. A graceful stop returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("HTTP server listening", logger.String("addr", ln.Addr().String()))

	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
