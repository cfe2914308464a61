package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/version"
)

type healthzResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	version.Info
}

// Healthz is the liveness probe. It never touches the backend or the state store.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status: "ok",
			Uptime: d.Now().Sub(d.StartTime).Truncate(time.Second).String(),
			Info:   d.Build,
		})
	}
}
