package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := d.API.Bookmarks().List(r.Context(), domain.Filters{
			Folder: q.Get("folder"),
			Tag:    q.Get("tag"),
			Search: q.Get("search"),
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, list, "")
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		b, err := d.API.Bookmarks().Get(r.Context(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, b, "")
	}
}

// CreateBookmark validates the URL before reaching the backend.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateBookmark
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := domain.ValidateBookmarkURL(in.URL); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		in.Tags = domain.NormalizeTags(in.Tags)

		b, err := d.API.Bookmarks().Create(r.Context(), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, b, "Bookmark created")
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		var in domain.UpdateBookmark
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		in.Tags = domain.NormalizeTags(in.Tags)

		b, err := d.API.Bookmarks().Update(r.Context(), id, in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, b, "Bookmark updated")
	}
}

func ToggleBookmarkPrivacy(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		ps, err := d.API.Bookmarks().TogglePrivacy(r.Context(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, ps, "")
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.API.Bookmarks().Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Bookmark deleted")
	}
}

func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := d.API.Bookmarks().Folders(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, folders, "")
	}
}
