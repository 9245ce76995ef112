// Package pgtest opens migrated databases for repository and query tests.
package pgtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"fastship/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLite returns a migrated in-memory database private to the test.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := postgres.Open(postgres.Options{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Postgres starts a disposable postgres container and returns a migrated connection to it
// together with the container, which the caller terminates.
func Postgres(ctx context.Context) (*tcpostgres.PostgresContainer, *gorm.DB, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := postgres.Open(postgres.Options{Driver: "postgres", DSN: dsn}, zap.NewNop())
	if err != nil {
		return container, nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		return container, nil, err
	}
	return container, db, nil
}

// Truncate empties every table of the service.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE outbox_messages, reviews, shipment_tags, shipment_events, shipments,
		tags, delivery_partner_zip_codes, delivery_partners, sellers CASCADE`).Error
}
