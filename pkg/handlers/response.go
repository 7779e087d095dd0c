package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/logging"
	"github.com/Legolasan/legolasan-in/pkg/ratelimit"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps a service-layer error onto the HTTP response. Unknown
// errors are logged with details and surface as an opaque 500.
func ServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var writeErr error
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrConflict):
		writeErr = ErrorResponse(w, http.StatusConflict, "conflict", "Resource already exists")
	case errors.Is(err, apperrors.ErrUnauthorized):
		writeErr = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, apperrors.ErrRateLimited):
		writeErr = ErrorResponse(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later")
	default:
		if ve, ok := apperrors.AsValidation(err); ok {
			writeErr = ValidationErrorResponse(w, ve)
			break
		}
		logger.Error("request failed", zap.String("error", logging.SanitizeError(err)))
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// ValidationErrorResponse writes a 400 carrying the offending field.
func ValidationErrorResponse(w http.ResponseWriter, ve *apperrors.ValidationError) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   "validation_error",
		"field":   ve.Field,
		"message": ve.Message,
	})
}

// CheckRateLimit runs the limiter for the request's client IP. It reports
// whether the request may proceed, writing the 429 itself when it may not.
func CheckRateLimit(w http.ResponseWriter, r *http.Request, limiter *ratelimit.Limiter, logger *zap.Logger) bool {
	result := limiter.Check(ratelimit.ClientIP(r))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if result.Allowed {
		return true
	}

	w.Header().Set("Retry-After", strconv.FormatInt(result.ResetTime.Unix(), 10))
	if err := ErrorResponse(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later"); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
	return false
}
