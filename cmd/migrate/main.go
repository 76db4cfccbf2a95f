// Command migrate creates (and optionally recreates) the database schema.
package main

import (
	"context"
	"flag"
	"log"

	"docmind/internal/config"
	"docmind/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before creating them (fresh start)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if cfg.IsProduction() && *dropTables {
		log.Fatal("refusing to drop tables in production")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := dropAll(ctx, pool, tables); err != nil {
			log.Fatalf("dropping tables: %v", err)
		}
	}

	if err := createSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("creating schema: %v", err)
	}

	log.Printf("schema ready (prefix: %q)", cfg.TablePrefix)
}

func createSchema(ctx context.Context, pool *pgxpool.Pool, tables postgres.TableNames, prefix string) error {
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents() + ` (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			json_data JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	createTokens := `
		CREATE TABLE IF NOT EXISTS ` + tables.Tokens() + ` (
			user_id UUID PRIMARY KEY,
			balance INTEGER NOT NULL DEFAULT 0,
			first_purchase_used BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTokens); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `documents_owner_created ON ` + tables.Documents() + `(owner_id, created_at DESC)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}
	return nil
}

func dropAll(ctx context.Context, pool *pgxpool.Pool, tables postgres.TableNames) error {
	for _, table := range []string{tables.Documents(), tables.Tokens()} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}
	return nil
}
