package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"docmind/internal/domain"
	"docmind/internal/domain/models"
)

// allowedAlgorithms is the signing algorithm allowlist. Anything else,
// including "none", fails verification.
var allowedAlgorithms = []string{"RS256", "ES256"}

// JWKSVerifier verifies JWTs against a remote JWKS endpoint. Key material is
// fetched and refreshed in the background by keyfunc.
type JWKSVerifier struct {
	keyFunc jwt.Keyfunc
	logger  *slog.Logger
}

var _ TokenVerifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier starts a background-refreshing JWKS client for the given
// endpoint. The context controls the lifetime of the refresh goroutine.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("initializing JWKS client: %w", err)
	}

	return &JWKSVerifier{
		keyFunc: k.Keyfunc,
		logger:  logger.With("component", "jwks_verifier"),
	}, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
// Tokens without the "authenticated" role are rejected.
func (v *JWKSVerifier) VerifyToken(ctx context.Context, token string) (*models.Claims, error) {
	claims := &models.Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, v.keyFunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token verification failed", "error", err)
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	if claims.Role != "authenticated" {
		return nil, fmt.Errorf("%w: unexpected role %q", domain.ErrUnauthorized, claims.Role)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return claims, nil
}
