package repositories

import (
	"context"

	"docmind/internal/domain/models"
)

// DocumentRepository persists documents. Every read and write is scoped by
// ownerID; a lookup for a document the caller does not own behaves exactly
// like a lookup for a document that does not exist.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
	Update(ctx context.Context, ownerID, id string, update models.DocumentUpdate) (*models.Document, error)
	Delete(ctx context.Context, ownerID, id string) error

	// DeleteMany removes the given documents atomically. If any id does not
	// exist under ownerID the whole batch fails and nothing is deleted.
	DeleteMany(ctx context.Context, ownerID string, ids []string) error
}
