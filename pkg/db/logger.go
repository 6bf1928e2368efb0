package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "orgsvc",
	Subsystem: "db",
	Name:      "query_duration_seconds",
	Help:      "The time spent executing database queries",
	Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
}, []string{"op"})

// trace logs the query when a logger is set and returns a function that
// records the query duration.
func trace(l *log.Logger, op string, query string, args ...interface{}) func() {
	if l != nil {
		// Remove newlines and tabs
		q := strings.ReplaceAll(query, "\t", "")
		q = strings.TrimSpace(q)
		l.Debug("trace", "op", op, "query", q, "args", args)
	}
	start := time.Now()
	return func() {
		queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Select is a wrapper around sqlx.Select that traces the query.
func (d *DB) Select(dest interface{}, query string, args ...interface{}) error {
	defer trace(d.logger, "select", query, args...)()
	return d.DB.Select(dest, query, args...)
}

// Get is a wrapper around sqlx.Get that traces the query.
func (d *DB) Get(dest interface{}, query string, args ...interface{}) error {
	defer trace(d.logger, "get", query, args...)()
	return d.DB.Get(dest, query, args...)
}

// Queryx is a wrapper around sqlx.Queryx that traces the query.
func (d *DB) Queryx(query string, args ...interface{}) (*sqlx.Rows, error) {
	defer trace(d.logger, "query", query, args...)()
	return d.DB.Queryx(query, args...)
}

// QueryRowx is a wrapper around sqlx.QueryRowx that traces the query.
func (d *DB) QueryRowx(query string, args ...interface{}) *sqlx.Row {
	defer trace(d.logger, "query_row", query, args...)()
	return d.DB.QueryRowx(query, args...)
}

// Exec is a wrapper around sqlx.Exec that traces the query.
func (d *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	defer trace(d.logger, "exec", query, args...)()
	return d.DB.Exec(query, args...)
}

// SelectContext is a wrapper around sqlx.SelectContext that traces the query.
func (d *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer trace(d.logger, "select", query, args...)()
	return d.DB.SelectContext(ctx, dest, query, args...)
}

// GetContext is a wrapper around sqlx.GetContext that traces the query.
func (d *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer trace(d.logger, "get", query, args...)()
	return d.DB.GetContext(ctx, dest, query, args...)
}

// QueryxContext is a wrapper around sqlx.QueryxContext that traces the query.
func (d *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	defer trace(d.logger, "query", query, args...)()
	return d.DB.QueryxContext(ctx, query, args...)
}

// QueryRowxContext is a wrapper around sqlx.QueryRowxContext that traces the query.
func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	defer trace(d.logger, "query_row", query, args...)()
	return d.DB.QueryRowxContext(ctx, query, args...)
}

// ExecContext is a wrapper around sqlx.ExecContext that traces the query.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer trace(d.logger, "exec", query, args...)()
	return d.DB.ExecContext(ctx, query, args...)
}

// Select is a wrapper around sqlx.Select that traces the query.
func (t *Tx) Select(dest interface{}, query string, args ...interface{}) error {
	defer trace(t.logger, "select", query, args...)()
	return t.Tx.Select(dest, query, args...)
}

// Get is a wrapper around sqlx.Get that traces the query.
func (t *Tx) Get(dest interface{}, query string, args ...interface{}) error {
	defer trace(t.logger, "get", query, args...)()
	return t.Tx.Get(dest, query, args...)
}

// Queryx is a wrapper around sqlx.Queryx that traces the query.
func (t *Tx) Queryx(query string, args ...interface{}) (*sqlx.Rows, error) {
	defer trace(t.logger, "query", query, args...)()
	return t.Tx.Queryx(query, args...)
}

// QueryRowx is a wrapper around sqlx.QueryRowx that traces the query.
func (t *Tx) QueryRowx(query string, args ...interface{}) *sqlx.Row {
	defer trace(t.logger, "query_row", query, args...)()
	return t.Tx.QueryRowx(query, args...)
}

// Exec is a wrapper around sqlx.Exec that traces the query.
func (t *Tx) Exec(query string, args ...interface{}) (sql.Result, error) {
	defer trace(t.logger, "exec", query, args...)()
	return t.Tx.Exec(query, args...)
}

// SelectContext is a wrapper around sqlx.SelectContext that traces the query.
func (t *Tx) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer trace(t.logger, "select", query, args...)()
	return t.Tx.SelectContext(ctx, dest, query, args...)
}

// GetContext is a wrapper around sqlx.GetContext that traces the query.
func (t *Tx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer trace(t.logger, "get", query, args...)()
	return t.Tx.GetContext(ctx, dest, query, args...)
}

// QueryxContext is a wrapper around sqlx.QueryxContext that traces the query.
func (t *Tx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	defer trace(t.logger, "query", query, args...)()
	return t.Tx.QueryxContext(ctx, query, args...)
}

// QueryRowxContext is a wrapper around sqlx.QueryRowxContext that traces the query.
func (t *Tx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	defer trace(t.logger, "query_row", query, args...)()
	return t.Tx.QueryRowxContext(ctx, query, args...)
}

// ExecContext is a wrapper around sqlx.ExecContext that traces the query.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer trace(t.logger, "exec", query, args...)()
	return t.Tx.ExecContext(ctx, query, args...)
}
