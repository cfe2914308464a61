package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

func ListTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.API.Tags().List(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, tags, "")
	}
}

func CreateTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name string `json:"name"`
		}
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			writeError(w, d.Logger, &domain.ValidationError{Field: "name", Message: "tag name is required"})
			return
		}

		tag, err := d.API.Tags().Create(r.Context(), name)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, tag, "Tag created")
	}
}

func DeleteTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.API.Tags().Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Tag deleted")
	}
}
