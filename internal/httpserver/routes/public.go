package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
)

func init() { Register(registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/bookmarks", handlers.PublicBookmarks(d))
		r.Get("/users/{username}/bookmarks", handlers.PublicUserBookmarks(d))
		r.Get("/tags", handlers.PopularTags(d))
	})
}
