package db_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/internal/test"
)

func TestOpenUnknownDriver(t *testing.T) {
	_, err := db.Open(context.TODO(), "invalid", "")
	if err == nil {
		t.Fatal("Open(invalid) => nil, want error")
	}
	if !strings.Contains(err.Error(), "unknown driver") {
		t.Errorf("Open(invalid) => %v, want error containing 'unknown driver'", err)
	}
}

func TestTransactionRollback(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "CREATE TABLE things (name TEXT NOT NULL UNIQUE)")
	is.NoErr(err)

	errBoom := errors.New("boom")
	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO things (name) VALUES (?)"), "a"); err != nil {
			return err
		}
		return errBoom
	})
	is.True(errors.Is(err, errBoom))

	var n int
	is.NoErr(dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM things"))
	is.Equal(n, 0) // rolled back
}

func TestTransactionCommit(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "CREATE TABLE things (name TEXT NOT NULL UNIQUE)")
	is.NoErr(err)

	is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO things (name) VALUES (?)"), "a")
		return err
	}))

	var n int
	is.NoErr(dbx.GetContext(ctx, &n, "SELECT COUNT(*) FROM things"))
	is.Equal(n, 1)
}

func TestWrapErrorSqliteConstraints(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, `CREATE TABLE parents (id TEXT PRIMARY KEY)`)
	is.NoErr(err)
	_, err = dbx.ExecContext(ctx, `CREATE TABLE children (
		parent_id TEXT NOT NULL REFERENCES parents (id)
	)`)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "INSERT INTO parents (id) VALUES ('p')")
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, "INSERT INTO parents (id) VALUES ('p')")
	is.Equal(db.WrapError(err), db.ErrDuplicateKey)

	_, err = dbx.ExecContext(ctx, "INSERT INTO children (parent_id) VALUES ('missing')")
	is.Equal(db.WrapError(err), db.ErrForeignKey)

	var id string
	err = dbx.GetContext(ctx, &id, "SELECT id FROM parents WHERE id = 'missing'")
	is.Equal(db.WrapError(err), db.ErrRecordNotFound)
}
