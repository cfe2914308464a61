package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type themeBody struct {
	Theme domain.Theme `json:"theme"`
}

func GetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, themeBody{Theme: d.Theme.Get(r.Context())}, "")
	}
}

func SetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in themeBody
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Theme.Set(r.Context(), in.Theme); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, in, "")
	}
}
