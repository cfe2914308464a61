package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
)

func init() { Register(registerTags, requireSession) }

func registerTags(r chi.Router, d deps.Deps) {
	r.Route("/api/tags", func(r chi.Router) {
		r.Get("/", handlers.ListTags(d))
		r.Post("/", handlers.CreateTag(d))
		r.Delete("/{id}", handlers.DeleteTag(d))
	})
}
