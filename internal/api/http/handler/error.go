package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harlo-app/harlo-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps domain sentinels to HTTP statuses. Anything
// unrecognized is an internal error with a generic message so store
// internals never leak to clients.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, model.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid email address"
	case errors.Is(err, model.ErrWeakPassword):
		return http.StatusBadRequest, "password must be 8-20 characters with upper and lower case letters, a digit and a symbol"
	case errors.Is(err, model.ErrMissingEmail):
		return http.StatusBadRequest, "account has no email address"
	case errors.Is(err, model.ErrEmptyPassword):
		return http.StatusBadRequest, "password is required"
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, model.ErrDeletionInProgress):
		return http.StatusConflict, "account deletion already in progress"
	case errors.Is(err, model.ErrWrongCredential):
		return http.StatusUnauthorized, "wrong email or password"
	case errors.Is(err, model.ErrRequiresRecentLogin):
		return http.StatusUnauthorized, "recent login required"
	case errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenMismatch):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, model.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many attempts, try again later"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, message := statusFromError(err)
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
