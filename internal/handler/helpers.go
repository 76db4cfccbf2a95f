package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"docmind/internal/domain"
	"docmind/internal/httputil"
)

// handleError maps a domain error to its HTTP response. Internal errors are
// logged with detail but answered generically.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := domain.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, status, "internal server error")
		return
	}

	logger.Debug("request rejected", "status", status, "error", err)
	httputil.RespondError(w, status, err.Error())
}

// userID extracts the authenticated user, which the auth middleware
// guarantees for /api routes.
func userID(r *http.Request) (string, error) {
	id, ok := httputil.UserIDFrom(r.Context())
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

// documentID validates the {id} path segment.
func documentID(r *http.Request) (string, error) {
	id := r.PathValue("id")
	if err := uuid.Validate(id); err != nil {
		return "", fmt.Errorf("%w: invalid document id", domain.ErrValidation)
	}
	return id, nil
}
