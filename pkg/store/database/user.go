package database

import (
	"context"

	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
	"github.com/orgsvc/orgsvc/pkg/store"
)

type userStore struct{ *orgStore }

var _ store.UserStore = (*userStore)(nil)

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, h db.Handler, id string) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// FindUserByEmail implements store.UserStore.
// Emails are compared byte for byte.
func (*userStore) FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE email = ?;`)
	err := h.GetContext(ctx, &m, query, email)
	return m, db.WrapError(err)
}

// CreateUser implements store.UserStore.
func (*userStore) CreateUser(ctx context.Context, h db.Handler, user models.User) error {
	query := h.Rebind(`
		INSERT INTO
		  users (id, first_name, last_name, email, password, phone, updated_at)
		VALUES
		  (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`)
	_, err := h.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Password, user.Phone)
	return db.WrapError(err)
}

// CreateUserWithOrganisation implements store.UserStore.
func (s *userStore) CreateUserWithOrganisation(ctx context.Context, h db.Handler, user models.User, org models.Organisation) error {
	if err := s.CreateUser(ctx, h, user); err != nil {
		return err
	}

	return s.CreateOrganisation(ctx, h, org, user.ID)
}

// ListUsersByOrganisationID implements store.UserStore.
func (*userStore) ListUsersByOrganisationID(ctx context.Context, h db.Handler, orgID string) ([]models.User, error) {
	var m []models.User
	query := h.Rebind(`
		SELECT
		  u.*
		FROM
		  users u
		  JOIN organisation_members om ON om.user_id = u.id
		WHERE
		  om.org_id = ?
		ORDER BY
		  om.created_at ASC, u.id ASC;
	`)
	err := h.SelectContext(ctx, &m, query, orgID)
	return m, db.WrapError(err)
}

// UsersShareOrganisation implements store.UserStore.
func (*userStore) UsersShareOrganisation(ctx context.Context, h db.Handler, a, b string) (bool, error) {
	var shared bool
	query := h.Rebind(`
		SELECT EXISTS (
		  SELECT
		    1
		  FROM
		    organisation_members ma
		    JOIN organisation_members mb ON mb.org_id = ma.org_id
		  WHERE
		    ma.user_id = ?
		    AND mb.user_id = ?
		);
	`)
	err := h.GetContext(ctx, &shared, query, a, b)
	return shared, db.WrapError(err)
}
