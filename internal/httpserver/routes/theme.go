package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
)

func init() { Register(registerTheme) }

func registerTheme(r chi.Router, d deps.Deps) {
	r.Get("/api/theme", handlers.GetTheme(d))
	r.Put("/api/theme", handlers.SetTheme(d))
}
