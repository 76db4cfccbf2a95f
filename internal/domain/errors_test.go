package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrUnsupportedFileType, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInsufficientTokens, http.StatusPaymentRequired},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrEmptyResponse, http.StatusBadGateway},
		{ErrExternalService, http.StatusBadGateway},
		{errors.New("anything else"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("deeply: %w", fmt.Errorf("wrapped: %w", ErrInsufficientTokens)), http.StatusPaymentRequired},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
