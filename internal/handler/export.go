package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"docmind/internal/httputil"
	"docmind/internal/service/export"
)

// ExportHandler serves PDF export.
type ExportHandler struct {
	export *export.Service
	logger *slog.Logger
}

func NewExportHandler(service *export.Service, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{export: service, logger: logger.With("handler", "export")}
}

type exportRequest struct {
	DocumentIDs []string `json:"documentIds"`
	ContentType string   `json:"contentType"`
}

// Export handles POST /api/export. An empty id list exports the user's
// current selection.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req exportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	pdfBytes, filename, err := h.export.Export(r.Context(), uid, req.DocumentIDs, export.ContentType(req.ContentType))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
