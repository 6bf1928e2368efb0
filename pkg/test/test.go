// Package test provides helpers shared by package tests.
package test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/migrate"
)

// Config returns a default configuration rooted in a temp directory, with a
// test token secret and the cheapest bcrypt cost.
func Config(tb testing.TB) *config.Config {
	tb.Helper()
	cfg := config.DefaultConfig()
	cfg.DataPath = tb.TempDir()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = 4
	if err := cfg.Validate(); err != nil {
		tb.Fatal(err)
	}
	return cfg
}

// Context returns a context carrying cfg and a discarding logger.
func Context(tb testing.TB, cfg *config.Config) context.Context {
	tb.Helper()
	ctx := config.WithContext(context.Background(), cfg)
	logger := log.New(io.Discard)
	return log.WithContext(ctx, logger)
}

// OpenDB opens a migrated temp SQLite database. The database is closed when
// the test is done.
func OpenDB(ctx context.Context, tb testing.TB) *db.DB {
	tb.Helper()
	dbpath := filepath.Join(tb.TempDir(), "test.db")
	dbx, err := db.Open(ctx, "sqlite", dbpath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})
	if err := migrate.Migrate(ctx, dbx); err != nil {
		tb.Fatal(err)
	}
	return dbx
}
