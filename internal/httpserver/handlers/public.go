package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

// PublicBookmarks lists the shared feed. Anonymous access is allowed.
func PublicBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", d.PublicLimit)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		offset, err := intQuery(r, "offset", 0)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		q := r.URL.Query()
		list, err := d.API.Public().Bookmarks(r.Context(), domain.PublicFilters{
			Tag:    q.Get("tag"),
			Search: q.Get("search"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, list, "")
	}
}

func PublicUserBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.API.Public().UserBookmarks(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, list, "")
	}
}

func PopularTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", d.PopularTags)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		tags, err := d.API.Public().PopularTags(r.Context(), limit)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, tags, "")
	}
}
