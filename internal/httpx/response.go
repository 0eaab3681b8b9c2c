// Package httpx holds the JSON response and error conventions shared by
// every controller.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationErrorResponse struct {
	TraceID string                       `json:"traceId,omitempty"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func NewTraceID() string {
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, logger *zap.Logger, traceID string, message string, details ...apperrors.ValidationDetail) {
	WriteJSON(w, logger, http.StatusBadRequest, ValidationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func WriteError(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code string, message string) {
	WriteJSON(w, logger, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	})
}

// HandleError maps an application error onto its HTTP response. Anything
// unrecognised is logged and reported as a 500 without its details.
func HandleError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		WriteError(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", nfe.Message)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		WriteError(w, logger, traceID, http.StatusConflict, "CONFLICT", ce.Message)
		return
	}

	if mysql.IsDeadlock(err) {
		logger.Warn("transaction aborted by lock contention", zap.Error(err))
		WriteError(w, logger, traceID, http.StatusConflict, "DEADLOCK", "the request conflicted with a concurrent update, retry it")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

// DecodeJSON decodes the request body into dst, writing an error response
// and returning false when the body is larger than MaxBodyBytes or is not
// valid JSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
			WriteError(w, logger, traceID, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return false
		}
		logger.Warn("invalid JSON body", zap.Error(err))
		WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

// IDParam parses a positive integer path parameter, writing a validation
// error and returning false otherwise.
func IDParam(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		WriteValidationError(w, logger, traceID, "invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
