package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"docmind/internal/domain/models"
	"docmind/internal/domain/repositories"
)

// TokenRepository is the Postgres implementation of
// repositories.TokenRepository.
type TokenRepository struct {
	cfg    RepositoryConfig
	logger *slog.Logger
}

func NewTokenRepository(cfg RepositoryConfig) *TokenRepository {
	return &TokenRepository{
		cfg:    cfg,
		logger: cfg.Logger.With("repository", "tokens"),
	}
}

var _ repositories.TokenRepository = (*TokenRepository)(nil)

func (r *TokenRepository) Get(ctx context.Context, userID string) (*models.TokenBalance, error) {
	query := fmt.Sprintf(`
		SELECT user_id, balance, first_purchase_used, updated_at
		FROM %s
		WHERE user_id = $1`,
		r.cfg.Tables.Tokens())

	var balance models.TokenBalance
	err := r.cfg.GetExecutor(ctx).QueryRow(ctx, query, userID).Scan(
		&balance.UserID, &balance.Balance, &balance.FirstPurchaseUsed, &balance.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying token balance: %w", err)
	}
	return &balance, nil
}

func (r *TokenRepository) Save(ctx context.Context, balance *models.TokenBalance) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, balance, first_purchase_used, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			first_purchase_used = EXCLUDED.first_purchase_used,
			updated_at = EXCLUDED.updated_at`,
		r.cfg.Tables.Tokens())

	_, err := r.cfg.GetExecutor(ctx).Exec(ctx, query,
		balance.UserID, balance.Balance, balance.FirstPurchaseUsed, balance.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving token balance: %w", err)
	}
	return nil
}
