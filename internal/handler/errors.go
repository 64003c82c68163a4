package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/minutes/minutes/internal/search"
	"github.com/minutes/minutes/internal/service"
)

// handleServiceError maps domain errors to HTTP responses. Unknown errors
// are logged and returned as 500 without detail.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmailRegistered):
		writeError(w, http.StatusBadRequest, "EMAIL_REGISTERED", "Email already registered")
	case errors.Is(err, service.ErrIncorrectCredentials):
		writeError(w, http.StatusBadRequest, "INCORRECT_CREDENTIALS", "Incorrect credentials")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidSentiment):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, search.ErrNoCredentials):
		writeError(w, http.StatusInternalServerError, "NO_SEARCH_CREDENTIALS", "No search API keys are configured")
	case errors.Is(err, search.ErrAllCredentialsFailed):
		writeError(w, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
