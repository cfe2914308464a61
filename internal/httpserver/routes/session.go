package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", handlers.Session(d))
		r.Post("/logout", handlers.Logout(d))
		r.Post("/revalidate", handlers.Revalidate(d))

		limited := r.With(mw.RateLimit(d.AuthRateLimit))
		limited.Post("/login", handlers.Login(d))
		limited.Post("/register", handlers.Register(d))
	})
}
