package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is enforced before registration and password changes.
const MinPasswordLength = 8

// IsValidURL accepts absolute URLs with a scheme and either a host or an
// opaque part (mailto:, data:), like a browser URL constructor would.
func IsValidURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidateBookmarkURL is run before creating a bookmark (not on edit).
func ValidateBookmarkURL(raw string) error {
	if !IsValidURL(raw) {
		return &ValidationError{Field: "url", Message: "please enter a valid URL"}
	}
	return nil
}

// ValidateRegistration checks the password rules of the registration form.
func ValidateRegistration(password, confirm string) error {
	if password != confirm {
		return &ValidationError{Field: "password", Message: "passwords do not match"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters long"}
	}
	return nil
}

// ValidatePasswordChange checks the new password and its confirmation.
func ValidatePasswordChange(newPassword, confirm string) error {
	if newPassword != confirm {
		return &ValidationError{Field: "new_password", Message: "new passwords do not match"}
	}
	return nil
}

// NormalizeTags trims names, drops empties and duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
