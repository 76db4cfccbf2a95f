// Package ledger manages per-user token balances that gate AI operations.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"docmind/internal/domain/models"
	"docmind/internal/domain/repositories"
)

// Service keeps an in-memory view of balances backed by the repository.
// All mutations persist the full snapshot before updating the cache, so a
// failed write never leaves the cache ahead of the store.
type Service struct {
	repo           repositories.TokenRepository
	startingTokens int
	logger         *slog.Logger

	mu    sync.Mutex
	cache map[string]*models.TokenBalance
}

func NewService(repo repositories.TokenRepository, startingTokens int, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		startingTokens: startingTokens,
		logger:         logger.With("service", "ledger"),
		cache:          make(map[string]*models.TokenBalance),
	}
}

// load returns the balance for userID, initializing a new user with the
// starting allowance. Caller must hold s.mu.
func (s *Service) load(ctx context.Context, userID string) (*models.TokenBalance, error) {
	if b, ok := s.cache[userID]; ok {
		return b, nil
	}

	b, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading token balance: %w", err)
	}
	if b == nil {
		b = &models.TokenBalance{
			UserID:    userID,
			Balance:   s.startingTokens,
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.repo.Save(ctx, b); err != nil {
			return nil, fmt.Errorf("initializing token balance: %w", err)
		}
		s.logger.Info("initialized token balance", "user_id", userID, "balance", b.Balance)
	}

	s.cache[userID] = b
	return b, nil
}

// Balance returns the user's current balance, creating the starting
// allowance for first-time users.
func (s *Service) Balance(ctx context.Context, userID string) (*models.TokenBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := *b
	return &snapshot, nil
}

// Spend consumes one token. It returns false with no error when the balance
// is already zero.
func (s *Service) Spend(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if b.Balance <= 0 {
		return false, nil
	}

	updated := *b
	updated.Balance--
	updated.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, &updated); err != nil {
		return false, fmt.Errorf("persisting token spend: %w", err)
	}

	s.cache[userID] = &updated
	s.logger.Debug("token spent", "user_id", userID, "balance", updated.Balance)
	return true, nil
}

// Credit adds tokens to the user's balance.
func (s *Service) Credit(ctx context.Context, userID string, amount int) (*models.TokenBalance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := *b
	updated.Balance += amount
	updated.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persisting token credit: %w", err)
	}

	s.cache[userID] = &updated
	s.logger.Info("tokens credited", "user_id", userID, "amount", amount, "balance", updated.Balance)
	snapshot := updated
	return &snapshot, nil
}

// MarkFirstPurchaseUsed records that the user has consumed their first
// purchase discount.
func (s *Service) MarkFirstPurchaseUsed(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if b.FirstPurchaseUsed {
		return nil
	}

	updated := *b
	updated.FirstPurchaseUsed = true
	updated.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, &updated); err != nil {
		return fmt.Errorf("persisting first purchase flag: %w", err)
	}

	s.cache[userID] = &updated
	return nil
}
