package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mchugh/liveblog/internal/platform/apperror"
	"github.com/mchugh/liveblog/internal/platform/logger"
)

// Error codes used on the wire (lower_snake_case convention)
const (
	ErrorCodeNotFound            = "not_found"
	ErrorCodeValidationError     = "validation_error"
	ErrorCodeStorageError        = "storage_error"
	ErrorCodeInternalServerError = "internal_server_error"
)

// errorBody is the JSON error envelope shared by all handlers.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorBody{Error: code, Message: message}); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", code,
			"status_code", statusCode,
		)
	}
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError maps application errors onto the JSON error envelope. Unknown
// errors become opaque 500s so internals never leak to clients.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code := wireCode(appErr.Code)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.HTTPStatus)
		if encErr := json.NewEncoder(w).Encode(errorBody{
			Error:   code,
			Message: appErr.Message,
			Details: appErr.Details,
		}); encErr != nil {
			h.logger.Error(r.Context(), "failed to encode error response", "error", encErr)
		}
		return
	}

	h.logger.Error(r.Context(), "unhandled error in request", "error", err)
	h.WriteJSONError(w, r, ErrorCodeInternalServerError, "internal server error", http.StatusInternalServerError)
}

func wireCode(code apperror.ErrorCode) string {
	switch code {
	case apperror.CodeNotFound:
		return ErrorCodeNotFound
	case apperror.CodeValidationFailed:
		return ErrorCodeValidationError
	case apperror.CodeStorageIO:
		return ErrorCodeStorageError
	default:
		return ErrorCodeInternalServerError
	}
}
