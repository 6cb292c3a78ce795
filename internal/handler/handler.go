package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error onto an HTTP response. Domain
// errors map to precise statuses; anything else is an infrastructure
// failure and surfaces as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidInput, model.ErrCodeInvalidJSON:
		status = http.StatusBadRequest
	case model.ErrCodeProductNotFound, model.ErrCodeCategoryNotFound:
		status = http.StatusNotFound
	case model.ErrCodeDuplicateReview:
		status = http.StatusConflict
	case model.ErrCodeConflict:
		// Optimistic retries were exhausted; the condition is transient.
		status = http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}
