package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any, msg string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: msg})
}

// writeError renders err with the status its kind maps to.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Warn("request failed", logger.Int("status", status), logger.Error(err))
	} else {
		log.Debug("request rejected", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func statusOf(err error) (int, string) {
	var (
		ve *domain.ValidationError
		ae *domain.AuthError
		nf *domain.NotFoundError
		ne *domain.NetworkError
		pe *domain.APIError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &ae):
		if ae.Kind == domain.AuthRejected {
			return http.StatusUnauthorized, ae.Message
		}
		return http.StatusBadGateway, ae.Message
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized, "login required"
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.As(err, &ne):
		return http.StatusBadGateway, "backend unreachable"
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, "malformed backend response"
	case errors.As(err, &pe):
		if pe.Status >= 400 {
			msg := pe.Message
			if msg == "" {
				msg = http.StatusText(pe.Status)
			}
			return pe.Status, msg
		}
		return http.StatusBadGateway, pe.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// decode reads a JSON body into out.
func decode(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(out); err != nil {
		return &domain.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: "invalid id " + strconv.Quote(raw)}
	}
	return id, nil
}

// intQuery parses an optional positive integer query parameter.
func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &domain.ValidationError{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}
