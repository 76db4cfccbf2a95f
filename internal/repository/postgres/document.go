package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
	"docmind/internal/domain/repositories"
)

// DocumentRepository is the Postgres implementation of
// repositories.DocumentRepository.
type DocumentRepository struct {
	cfg    RepositoryConfig
	logger *slog.Logger
}

func NewDocumentRepository(cfg RepositoryConfig) *DocumentRepository {
	return &DocumentRepository{
		cfg:    cfg,
		logger: cfg.Logger.With("repository", "document"),
	}
}

var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	jsonData, err := marshalJSONData(doc.JSONData)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, title, content, summary, language, json_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.cfg.Tables.Documents())

	_, err = r.cfg.GetExecutor(ctx).Exec(ctx, query,
		doc.ID, doc.OwnerID, doc.Title, doc.Content, doc.Summary, doc.Language, jsonData, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, title, content, summary, language, json_data, created_at
		FROM %s
		WHERE id = $1 AND owner_id = $2`,
		r.cfg.Tables.Documents())

	row := r.cfg.GetExecutor(ctx).QueryRow(ctx, query, id, ownerID)
	doc, err := scanDocument(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, title, content, summary, language, json_data, created_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC`,
		r.cfg.Tables.Documents())

	rows, err := r.cfg.GetExecutor(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Update(ctx context.Context, ownerID, id string, update models.DocumentUpdate) (*models.Document, error) {
	setClauses := make([]string, 0, 5)
	args := make([]any, 0, 7)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Title != nil {
		setClauses = append(setClauses, "title = "+arg(*update.Title))
	}
	if update.Content != nil {
		setClauses = append(setClauses, "content = "+arg(*update.Content))
	}
	if update.Summary != nil {
		setClauses = append(setClauses, "summary = "+arg(*update.Summary))
	}
	if update.Language != nil {
		setClauses = append(setClauses, "language = "+arg(*update.Language))
	}
	if update.JSONData != nil {
		jsonData, err := marshalJSONData(*update.JSONData)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, "json_data = "+arg(jsonData))
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s
		WHERE id = %s AND owner_id = %s
		RETURNING id, owner_id, title, content, summary, language, json_data, created_at`,
		r.cfg.Tables.Documents(), strings.Join(setClauses, ", "), arg(id), arg(ownerID))

	row := r.cfg.GetExecutor(ctx).QueryRow(ctx, query, args...)
	doc, err := scanDocument(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.cfg.Tables.Documents())

	tag, err := r.cfg.GetExecutor(ctx).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany verifies every id belongs to ownerID before deleting. Callers
// wanting all-or-nothing semantics run this inside a transaction.
func (r *DocumentRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	// Duplicate ids would make the ownership count come up short even though
	// every document is owned, so count against the distinct set.
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	exec := r.cfg.GetExecutor(ctx)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND id = ANY($2)`,
		r.cfg.Tables.Documents())
	var count int
	if err := exec.QueryRow(ctx, countQuery, ownerID, ids).Scan(&count); err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	if count != len(ids) {
		return domain.ErrNotFound
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE owner_id = $1 AND id = ANY($2)`,
		r.cfg.Tables.Documents())
	if _, err := exec.Exec(ctx, deleteQuery, ownerID, ids); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func marshalJSONData(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling json data: %w", err)
	}
	return raw, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var (
		doc     models.Document
		rawJSON []byte
	)
	err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.Content,
		&doc.Summary, &doc.Language, &rawJSON, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &doc.JSONData); err != nil {
			return nil, fmt.Errorf("unmarshaling json data: %w", err)
		}
	}
	return &doc, nil
}
