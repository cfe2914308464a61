package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

const probeTimeout = 2 * time.Second

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode          string                     `json:"mode"`
	Authenticated bool                       `json:"authenticated"`
	Components    map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"state":   checkState(r.Context(), d),
			"backend": checkBackend(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:          determineMode(components),
			Authenticated: d.Session.IsAuthenticated(),
			Components:    components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Without persisted state every restart logs the user out.
	if state, ok := components["state"]; ok && !state.OK {
		return "critical"
	}

	// Backend down: cached session survives, every data call fails.
	if backend, ok := components["backend"]; ok && !backend.OK {
		return "degraded"
	}

	return "operational"
}

func checkState(ctx context.Context, d deps.Deps) componentStatus {
	if d.StateCheck == nil {
		return componentStatus{OK: true, Mode: d.StateBackend}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := d.StateCheck(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StateBackend,
			Impact: "session-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.StateBackend}
}

func checkBackend(ctx context.Context, d deps.Deps) componentStatus {
	if d.API == nil {
		return componentStatus{OK: false, Error: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := d.API.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "requests-failing",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.API.BaseURL()}
}
