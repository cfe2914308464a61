package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks, requireSession) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Get("/folders", handlers.ListFolders(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Put("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Patch("/{id}/privacy", handlers.ToggleBookmarkPrivacy(d))
	})
}
