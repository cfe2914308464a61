package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
)

func init() { Register(registerProfile, requireSession) }

func registerProfile(r chi.Router, d deps.Deps) {
	r.Route("/api/profile", func(r chi.Router) {
		r.Get("/", handlers.GetProfile(d))
		r.Put("/", handlers.UpdateProfile(d))
		r.Put("/password", handlers.ChangePassword(d))
	})
}
