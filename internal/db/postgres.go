package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var (
	newPool = func(ctx context.Context, url string) (*pgxpool.Pool, error) {
		return pgxpool.New(ctx, url)
	}
	pingPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
)

// InitPostgres connects the process-wide pool. With an empty URL the pool
// stays nil and callers run without persistence.
func InitPostgres(ctx context.Context, databaseURL string) {
	if databaseURL == "" {
		log.Println("DATABASE_URL not set, running without Postgres")
		return
	}

	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("failed to create Postgres pool: %v", err)
	}
	if err := pingPool(ctx, pool); err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}

	Pool = pool
	log.Println("Connected to Postgres")
}
