package repositories

import (
	"context"

	"docmind/internal/domain/models"
)

// TokenRepository persists per-user token balances.
type TokenRepository interface {
	// Get returns the stored balance, or (nil, nil) when the user has no
	// balance row yet.
	Get(ctx context.Context, userID string) (*models.TokenBalance, error)

	// Save upserts the balance snapshot.
	Save(ctx context.Context, balance *models.TokenBalance) error
}
