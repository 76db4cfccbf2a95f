package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docmind/internal/domain/repositories"
)

// TableNames resolves the physical table names for this deployment.
// A prefix lets multiple environments share one database.
type TableNames struct {
	prefix string
}

func NewTableNames(prefix string) TableNames {
	return TableNames{prefix: prefix}
}

func (t TableNames) Documents() string { return t.prefix + "documents" }
func (t TableNames) Tokens() string    { return t.prefix + "token_balances" }

// RepositoryConfig carries the shared dependencies of every repository.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables TableNames
	Logger *slog.Logger
}

// NewPool opens a pgx connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	cfg.MaxConns = 25
	cfg.MinConns = 5
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction bound to ctx if one exists,
// falling back to the pool.
func (c RepositoryConfig) GetExecutor(ctx context.Context) repositories.DBTX {
	if tx, ok := GetTx(ctx); ok {
		return tx
	}
	return c.Pool
}
