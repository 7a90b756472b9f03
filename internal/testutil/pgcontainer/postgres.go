//go:build integration

// Package pgcontainer starts a throwaway Postgres for integration tests and
// applies the embedded migrations to it.
package pgcontainer

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/newsletter/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type Container struct {
	Container testcontainers.Container
	URL       string
	Pool      *pgxpool.Pool
}

// Start runs postgres:16-alpine, connects a pool and migrates it. Everything
// is torn down through t.Cleanup.
func Start(t *testing.T) *Container {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("newsletter"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("password"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := postgres.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &Container{Container: container, URL: url, Pool: pool}
}

// Truncate empties the subscription tables between tests.
func (c *Container) Truncate(ctx context.Context) error {
	_, err := c.Pool.Exec(ctx, `TRUNCATE subscription_tokens, subscriptions`)
	return err
}
