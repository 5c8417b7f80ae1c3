package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/simaogato/assetboard-backend/internal/adapter/dto"
	"github.com/simaogato/assetboard-backend/internal/logging"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeError writes a bare error with a fixed status.
func writeError(w http.ResponseWriter, r *http.Request, status int, code dto.ErrorCode, message string) {
	if lw, ok := w.(*loggingResponseWriter); ok {
		lw.SetErrorMessage(message)
	}
	writeJSON(w, status, ErrorResponse{
		Code:      status,
		Message:   message,
		ErrorCode: string(code),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeErrorResponse classifies a service error and writes it with the matching HTTP status.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := dto.Classify(err)
	status := mapErrorCodeToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			logging.FieldError, err.Error(),
			"path", r.URL.Path,
		)
	}
	writeError(w, r, status, code, err.Error())
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code dto.ErrorCode) int {
	switch code {
	case dto.ErrCodeValidation, dto.ErrCodeInvalidTransfer:
		return http.StatusBadRequest
	case dto.ErrCodeNotFound:
		return http.StatusNotFound
	case dto.ErrCodeCurrencyConversion, dto.ErrCodeCyclicCategory:
		return http.StatusUnprocessableEntity
	case dto.ErrCodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
