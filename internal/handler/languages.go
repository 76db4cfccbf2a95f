package handler

import (
	"net/http"

	"docmind/internal/domain/models"
	"docmind/internal/httputil"
)

// Languages handles GET /api/languages, the translation target catalog.
func Languages(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"languages": models.Languages,
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
