package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docmind/internal/domain"
	"docmind/internal/httputil"
	"docmind/internal/service/ai"
)

// AIHandler serves the AI-backed operations.
type AIHandler struct {
	ai     *ai.Service
	logger *slog.Logger
}

func NewAIHandler(service *ai.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{ai: service, logger: logger.With("handler", "ai")}
}

type generateRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

func (req generateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Content, validation.Required),
	)
}

const maxUploadBytes = 5 << 20

func parseGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req generateRequest
		err := httputil.ParseJSON(w, r, &req)
		return req, err
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return generateRequest{}, fmt.Errorf("%w: invalid multipart form", domain.ErrValidation)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return generateRequest{}, fmt.Errorf("%w: missing file part", domain.ErrValidation)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return generateRequest{}, fmt.Errorf("reading upload: %w", err)
	}
	if len(content) > maxUploadBytes {
		return generateRequest{}, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxUploadBytes)
	}

	return generateRequest{FileName: header.Filename, Content: string(content)}, nil
}

// Generate handles POST /api/documents/generate. The upload arrives either
// as a multipart form with a "file" part or as a JSON body.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	req, err := parseGenerateRequest(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	doc, err := h.ai.GenerateFromFile(r.Context(), uid, req.FileName, req.Content)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// Review handles POST /api/documents/{id}/review.
func (h *AIHandler) Review(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.docRequest(w, r)
	if !ok {
		return
	}

	doc, err := h.ai.Review(r.Context(), uid, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

type translateRequest struct {
	Language string `json:"language"`
}

// Translate handles POST /api/documents/{id}/translate.
func (h *AIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.docRequest(w, r)
	if !ok {
		return
	}

	var req translateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	doc, err := h.ai.Translate(r.Context(), uid, id, req.Language)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Summarize handles POST /api/documents/{id}/summarize.
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.docRequest(w, r)
	if !ok {
		return
	}

	doc, err := h.ai.Summarize(r.Context(), uid, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

type chatRequest struct {
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
}

func (req chatRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Question, validation.Required, validation.Length(1, 2000)),
	)
}

// Chat handles POST /api/chat.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req chatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	answer, err := h.ai.Chat(r.Context(), uid, req.DocumentID, req.Question)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *AIHandler) docRequest(w http.ResponseWriter, r *http.Request) (uid, id string, ok bool) {
	uid, err := userID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return "", "", false
	}
	id, err = documentID(r)
	if err != nil {
		handleError(w, h.logger, err)
		return "", "", false
	}
	return uid, id, true
}
