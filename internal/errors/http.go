package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// APIError is the structured error body returned by the HTTP shell.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// statusFor maps application error types to HTTP status codes.
func statusFor(t ErrorType) int {
	switch t {
	case ErrTypeConfig, ErrTypeValidation, ErrTypeEmptyInput:
		return http.StatusBadRequest
	case ErrTypeParsing, ErrTypeMerge:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Handler provides centralized HTTP error handling for the server shell.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError logs err and writes the corresponding APIError response.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	apiErr := &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_SERVER_ERROR",
		Message:    "internal server error",
		TraceID:    reqID,
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		apiErr.StatusCode = statusFor(appErr.Type)
		apiErr.ErrorCode = string(appErr.Type)
		apiErr.Message = appErr.Message
		if appErr.Cause != nil {
			apiErr.Details = appErr.Cause.Error()
		}
	}

	render.Render(w, r, apiErr)
}
