package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
	// MiddlewareFunc builds a middleware once the dependencies are known.
	MiddlewareFunc func(d deps.Deps) Middleware
)

type entry struct {
	reg Registrar
	mws []MiddlewareFunc
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...MiddlewareFunc) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		built := make([]Middleware, 0, len(e.mws))
		for _, f := range e.mws {
			built = append(built, f(d))
		}
		sub := r.With(built...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

func requireSession(d deps.Deps) Middleware {
	return mw.RequireSession(d.Session, d.Logger)
}
