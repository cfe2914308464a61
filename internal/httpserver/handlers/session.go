package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type registerRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FullName        *string `json:"full_name"`
}

// Session returns the current session snapshot.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, d.Session.Snapshot(), "")
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.LoginInput
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if strings.TrimSpace(in.Email) == "" || in.Password == "" {
			writeError(w, d.Logger, &domain.ValidationError{Message: "email and password are required"})
			return
		}

		u, err := d.Session.Login(r.Context(), strings.TrimSpace(in.Email), in.Password)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, u, "Login successful")
	}
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in registerRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
			writeError(w, d.Logger, &domain.ValidationError{Message: "username and email are required"})
			return
		}
		if err := domain.ValidateRegistration(in.Password, in.ConfirmPassword); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		u, err := d.Session.Register(r.Context(), domain.RegisterInput{
			Username: strings.TrimSpace(in.Username),
			Email:    strings.TrimSpace(in.Email),
			Password: in.Password,
			FullName: in.FullName,
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, u, "Registration successful")
	}
}

// Logout always succeeds.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Session.Logout(r.Context())
		writeData(w, http.StatusOK, nil, "Logged out")
	}
}

// Revalidate triggers a background revalidation of the cached user.
func Revalidate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.RevalidateTrigger <- struct{}{}:
			d.Logger.Info("manual session revalidation triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeData(w, http.StatusAccepted, nil, "Revalidation triggered")
		default:
			d.Logger.Warn("session revalidation already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, envelope{Error: "revalidation already pending"})
		}
	}
}
