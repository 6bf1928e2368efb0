package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
	"github.com/orgsvc/orgsvc/pkg/store"
	"github.com/orgsvc/orgsvc/pkg/test"
)

func setup(t *testing.T) (context.Context, *db.DB, store.Store) {
	t.Helper()
	ctx := test.Context(t, test.Config(t))
	dbx := test.OpenDB(ctx, t)
	return ctx, dbx, New(ctx, dbx)
}

func newUser(email string) models.User {
	return models.User{
		ID:        uuid.NewString(),
		FirstName: "Andy",
		LastName:  "Jane",
		Email:     email,
		Password:  "hash",
	}
}

func newOrg(name string) models.Organisation {
	return models.Organisation{ID: uuid.NewString(), Name: name}
}

func TestCreateUserWithOrganisation(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	u := newUser("andy@example.com")
	u.Phone = sql.NullString{String: "0800", Valid: true}
	o := newOrg("Andy's Organisation")
	is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return s.CreateUserWithOrganisation(ctx, tx, u, o)
	}))

	got, err := s.FindUserByEmail(ctx, dbx, "andy@example.com")
	is.NoErr(err)
	is.Equal(got.ID, u.ID)
	is.Equal(got.Phone.String, "0800")

	orgs, err := s.ListOrganisationsByUserID(ctx, dbx, u.ID)
	is.NoErr(err)
	is.Equal(len(orgs), 1)
	is.Equal(orgs[0].Name, "Andy's Organisation")
	is.True(!orgs[0].Description.Valid)

	members, err := s.ListUsersByOrganisationID(ctx, dbx, o.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)
	is.Equal(members[0].ID, u.ID)
}

func TestCreateUserDuplicateEmailRollsBack(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return s.CreateUserWithOrganisation(ctx, tx, newUser("dup@example.com"), newOrg("first"))
	}))

	second := newOrg("second")
	err := dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return s.CreateUserWithOrganisation(ctx, tx, newUser("dup@example.com"), second)
	})
	is.True(errors.Is(err, db.ErrDuplicateKey))

	_, err = s.GetOrganisationByID(ctx, dbx, second.ID)
	is.True(errors.Is(err, db.ErrRecordNotFound)) // no partial write
}

func TestFindUserByEmailIsExact(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	is.NoErr(s.CreateUser(ctx, dbx, newUser("Case@Example.com")))

	_, err := s.FindUserByEmail(ctx, dbx, "case@example.com")
	is.True(errors.Is(err, db.ErrRecordNotFound))

	// A differently cased email is a different user.
	is.NoErr(s.CreateUser(ctx, dbx, newUser("case@example.com")))
}

func TestAddUserToOrganisationIsIdempotent(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	a := newUser("a@example.com")
	b := newUser("b@example.com")
	o := newOrg("org")
	is.NoErr(s.CreateUser(ctx, dbx, a))
	is.NoErr(s.CreateUser(ctx, dbx, b))
	is.NoErr(s.CreateOrganisation(ctx, dbx, o, a.ID))

	shared, err := s.UsersShareOrganisation(ctx, dbx, a.ID, b.ID)
	is.NoErr(err)
	is.True(!shared)

	is.NoErr(s.AddUserToOrganisation(ctx, dbx, o.ID, b.ID))
	is.NoErr(s.AddUserToOrganisation(ctx, dbx, o.ID, b.ID))

	var n int
	is.NoErr(dbx.GetContext(ctx, &n, dbx.Rebind(`SELECT COUNT(*) FROM organisation_members WHERE org_id = ? AND user_id = ?`), o.ID, b.ID))
	is.Equal(n, 1)

	member, err := s.IsOrganisationMember(ctx, dbx, o.ID, b.ID)
	is.NoErr(err)
	is.True(member)

	shared, err = s.UsersShareOrganisation(ctx, dbx, a.ID, b.ID)
	is.NoErr(err)
	is.True(shared)
}

func TestAddUserToMissingOrganisation(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	u := newUser("a@example.com")
	is.NoErr(s.CreateUser(ctx, dbx, u))

	err := s.AddUserToOrganisation(ctx, dbx, uuid.NewString(), u.ID)
	is.True(errors.Is(err, db.ErrForeignKey))
}

func TestGetMissing(t *testing.T) {
	is := is.New(t)
	ctx, dbx, s := setup(t)

	_, err := s.GetUserByID(ctx, dbx, uuid.NewString())
	is.True(errors.Is(err, db.ErrRecordNotFound))

	_, err = s.GetOrganisationByID(ctx, dbx, uuid.NewString())
	is.True(errors.Is(err, db.ErrRecordNotFound))

	orgs, err := s.ListOrganisationsByUserID(ctx, dbx, uuid.NewString())
	is.NoErr(err)
	is.Equal(len(orgs), 0)
}
