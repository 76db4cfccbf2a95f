package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInsufficientTokens blocks a gated AI operation before the external
	// call is issued.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrEmptyResponse means the AI service returned no usable text.
	ErrEmptyResponse = errors.New("empty response from AI service")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExternalService     = errors.New("external service failure")
)

// StatusCode maps a domain error to an HTTP status code.
// Unknown errors map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInsufficientTokens):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
