package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/httputil"
	"docmind/internal/service/docs"
)

// DocumentHandler serves document CRUD and the session state endpoints.
type DocumentHandler struct {
	store  *docs.Store
	logger *slog.Logger
}

func NewDocumentHandler(store *docs.Store, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{store: store, logger: logger.With("handler", "documents")}
}

// State handles GET /api/documents.
func (h *DocumentHandler) State(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	state, err := h.store.State(r.Context(), uid)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

type createRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

func (req createRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Content, validation.Required),
	)
}

// Create handles POST /api/documents, for documents written by hand rather
// than generated.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req createRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	doc := &models.Document{
		Title:    req.Title,
		Content:  req.Content,
		Language: req.Language,
	}
	if err := h.store.Add(r.Context(), uid, doc); err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	id, err := documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	doc, err := h.store.Get(r.Context(), uid, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Update handles PATCH /api/documents/{id}.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	id, err := documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var update models.DocumentUpdate
	if err := httputil.ParseJSON(w, r, &update); err != nil {
		handleError(w, h.logger, err)
		return
	}

	doc, err := h.store.Update(r.Context(), uid, id, update)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	id, err := documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.store.Delete(r.Context(), uid, id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (req batchDeleteRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.IDs,
			validation.Required,
			validation.Length(1, 100),
			validation.Each(is.UUIDv4),
		),
	)
}

// BatchDelete handles POST /api/documents/batch-delete. The batch is
// all-or-nothing.
func (h *DocumentHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req batchDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := h.store.DeleteMany(r.Context(), uid, req.IDs); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCurrent handles POST /api/documents/{id}/current.
func (h *DocumentHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	id, err := documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.store.SetCurrent(r.Context(), uid, id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSelect handles POST /api/documents/{id}/select.
func (h *DocumentHandler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	id, err := documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.store.ToggleSelect(uid, id)
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"selectedIds": h.store.Selected(uid),
	})
}
