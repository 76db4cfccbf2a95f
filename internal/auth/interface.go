package auth

import (
	"context"

	"docmind/internal/domain/models"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.Claims, error)
}
