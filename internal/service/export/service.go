// Package export renders a set of documents into a single PDF. Layout and
// drawing are separate passes over page descriptors so every page knows the
// final page count before anything is drawn.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/service/docs"
)

// Service exports documents to PDF.
type Service struct {
	docs   *docs.Store
	now    func() time.Time
	logger *slog.Logger
}

func NewService(store *docs.Store, logger *slog.Logger) *Service {
	return &Service{
		docs:   store,
		now:    time.Now,
		logger: logger.With("service", "export"),
	}
}

// WithClock overrides the time source. Exports with the same documents and
// the same clock are byte-identical.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Export renders the given documents into one PDF. When ids is empty the
// user's current selection is exported instead. Returns the PDF bytes and
// the suggested download filename.
func (s *Service) Export(ctx context.Context, ownerID string, ids []string, contentType ContentType) ([]byte, string, error) {
	switch contentType {
	case ContentFull, ContentSummary:
	case "":
		contentType = ContentFull
	default:
		return nil, "", fmt.Errorf("%w: unknown content type %q", domain.ErrValidation, contentType)
	}

	documents, err := s.resolve(ctx, ownerID, ids)
	if err != nil {
		return nil, "", err
	}
	if len(documents) == 0 {
		return nil, "", fmt.Errorf("%w: no documents to export", domain.ErrValidation)
	}

	now := s.now()
	pages := layout(documents, contentType, now)
	pdfBytes, err := render(pages, now)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("documentacao-%s.pdf", now.Format("02-01-2006"))
	s.logger.Info("exported documents",
		"owner_id", ownerID,
		"documents", len(documents),
		"pages", len(pages),
	)
	return pdfBytes, filename, nil
}

func (s *Service) resolve(ctx context.Context, ownerID string, ids []string) ([]*models.Document, error) {
	if len(ids) == 0 {
		return s.docs.SelectedDocuments(ctx, ownerID)
	}

	documents := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.docs.Get(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}
