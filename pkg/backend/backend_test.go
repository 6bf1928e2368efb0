package backend

import (
	"context"
	"testing"

	"github.com/orgsvc/orgsvc/pkg/access"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/proto"
	"github.com/orgsvc/orgsvc/pkg/store/database"
	"github.com/orgsvc/orgsvc/pkg/test"
	"github.com/orgsvc/orgsvc/pkg/token"
)

type fixture struct {
	ctx context.Context
	cfg *config.Config
	db  *db.DB
	be  *Backend
}

func setup(tb testing.TB, policy access.Policy) *fixture {
	tb.Helper()
	cfg := test.Config(tb)
	cfg.Membership.AddMemberPolicy = policy
	ctx := test.Context(tb, cfg)
	dbx := test.OpenDB(ctx, tb)
	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		tb.Fatal(err)
	}

	be := New(ctx, cfg, dbx, database.New(ctx, dbx), issuer)
	return &fixture{ctx: ctx, cfg: cfg, db: dbx, be: be}
}

func (f *fixture) register(tb testing.TB, first, email string) proto.Session {
	tb.Helper()
	s, err := f.be.Register(f.ctx, proto.RegisterOptions{
		FirstName: proto.String(first),
		LastName:  proto.String("Doe"),
		Email:     proto.String(email),
		Password:  proto.String("password"),
	})
	if err != nil {
		tb.Fatalf("register %s: %v", email, err)
	}
	return s
}

func (f *fixture) count(tb testing.TB, table string) int {
	tb.Helper()
	var n int
	if err := f.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		tb.Fatal(err)
	}
	return n
}
