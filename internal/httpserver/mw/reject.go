package mw

import (
	"encoding/json"
	"net/http"
)

// reject writes the same envelope the API handlers use for failures.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Error: msg})
}
