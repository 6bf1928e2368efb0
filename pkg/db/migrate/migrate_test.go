package migrate

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/internal/test"
)

func TestMigrate(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	is.NoErr(Migrate(ctx, dbx))
	for _, table := range []string{"users", "organisations", "organisation_members"} {
		is.NoErr(dbx.Transaction(func(tx *db.Tx) error {
			if !hasTable(tx, table) {
				t.Errorf("table %q missing after migration", table)
			}
			return nil
		}))
	}

	v, err := Version(ctx, dbx)
	is.NoErr(err)
	is.Equal(v, int64(len(migrations)))

	// Running twice is a no-op.
	is.NoErr(Migrate(ctx, dbx))
}

func TestRollback(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)

	is.True(Rollback(ctx, dbx) != nil) // nothing to roll back yet

	is.NoErr(Migrate(ctx, dbx))
	is.NoErr(Rollback(ctx, dbx))

	v, err := Version(ctx, dbx)
	is.NoErr(err)
	is.Equal(v, int64(0))

	is.NoErr(dbx.Transaction(func(tx *db.Tx) error {
		is.True(!hasTable(tx, "users"))
		return nil
	}))

	is.NoErr(Migrate(ctx, dbx))
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"create tables":  "create_tables",
		"CreateTables":   "create_tables",
		"add-member-idx": "add_member_idx",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) => %q, want %q", in, got, want)
		}
	}
}
