package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

// SuccessResponse wraps successful API responses
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse represents an error API response. Message is the text meant
// for end users.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case domain.ErrCodeNoMatch:
		return http.StatusNotFound
	case domain.ErrCodeUnsupportedContent:
		return http.StatusUnsupportedMediaType
	case domain.ErrCodeBusy:
		return http.StatusTooManyRequests
	case domain.ErrCodeRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		JSON(w, status, ErrorResponse{Error: "internal error", Message: domain.UserMessage(err)})
		return
	}

	JSON(w, status, ErrorResponse{
		Error:   domainErr.Message,
		Code:    domainErr.Code,
		Message: domain.UserMessage(err),
	})
}
