package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, messageResponse{Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{Code: code, Message: message})
}

// mapError turns a service error into status, code and client message.
// Unknown errors become a generic 500.
func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "INVALID_INPUT", err.Error()
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "DUPLICATE_USERNAME", "Duplicate username"
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "DUPLICATE_EMAIL", "Duplicate email"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", "User not found"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong password"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "TOKEN_EXPIRED", "Unauthorized"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"
	}
}

func (s *HTTPServer) writeMappedError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, code, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"operation", operation,
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	} else {
		s.logger.Debug(r.Context(), "request rejected",
			"operation", operation,
			"request_id", requestIDFromContext(r.Context()),
			"code", code,
		)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeError(w, status, code, msg)
}
