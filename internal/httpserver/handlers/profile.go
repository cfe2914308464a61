package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func GetProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.API.Users().Profile(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, u, "")
	}
}

// UpdateProfile saves the profile and hands the returned record to the session.
func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.ProfileUpdate
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		u, err := d.API.Users().UpdateProfile(r.Context(), in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Session.UpdateUser(r.Context(), *u); err != nil {
			// The backend already holds the new profile; the next revalidation catches up.
			d.Logger.Warn("failed to store updated profile in session", logger.Error(err))
		}
		writeData(w, http.StatusOK, u, "Profile updated")
	}
}

func ChangePassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in passwordRequest
		if err := decode(w, r, &in); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := domain.ValidatePasswordChange(in.NewPassword, in.ConfirmPassword); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		err := d.API.Users().ChangePassword(r.Context(), domain.PasswordChange{
			CurrentPassword: in.CurrentPassword,
			NewPassword:     in.NewPassword,
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Password updated")
	}
}
