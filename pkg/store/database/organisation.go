package database

import (
	"context"

	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
	"github.com/orgsvc/orgsvc/pkg/store"
)

var _ store.OrganisationStore = (*orgStore)(nil)

type orgStore struct{}

// GetOrganisationByID implements store.OrganisationStore.
func (*orgStore) GetOrganisationByID(ctx context.Context, h db.Handler, id string) (models.Organisation, error) {
	var m models.Organisation
	query := h.Rebind(`SELECT * FROM organisations WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// CreateOrganisation implements store.OrganisationStore.
func (s *orgStore) CreateOrganisation(ctx context.Context, h db.Handler, org models.Organisation, creator string) error {
	query := h.Rebind(`
		INSERT INTO
		  organisations (id, name, description, updated_at)
		VALUES
		  (?, ?, ?, CURRENT_TIMESTAMP);
	`)
	if _, err := h.ExecContext(ctx, query, org.ID, org.Name, org.Description); err != nil {
		return db.WrapError(err)
	}

	return s.AddUserToOrganisation(ctx, h, org.ID, creator)
}

// ListOrganisationsByUserID implements store.OrganisationStore.
func (*orgStore) ListOrganisationsByUserID(ctx context.Context, h db.Handler, userID string) ([]models.Organisation, error) {
	var m []models.Organisation
	query := h.Rebind(`
		SELECT
		  o.*
		FROM
		  organisations o
		  JOIN organisation_members om ON om.org_id = o.id
		WHERE
		  om.user_id = ?
		ORDER BY
		  om.created_at ASC, o.id ASC;
	`)
	err := h.SelectContext(ctx, &m, query, userID)
	return m, db.WrapError(err)
}

// AddUserToOrganisation implements store.OrganisationStore.
func (*orgStore) AddUserToOrganisation(ctx context.Context, h db.Handler, orgID, userID string) error {
	query := h.Rebind(`
		INSERT INTO
		  organisation_members (org_id, user_id)
		VALUES
		  (?, ?)
		ON CONFLICT (user_id, org_id) DO NOTHING;
	`)
	_, err := h.ExecContext(ctx, query, orgID, userID)
	return db.WrapError(err)
}

// IsOrganisationMember implements store.OrganisationStore.
func (*orgStore) IsOrganisationMember(ctx context.Context, h db.Handler, orgID, userID string) (bool, error) {
	var member bool
	query := h.Rebind(`
		SELECT EXISTS (
		  SELECT
		    1
		  FROM
		    organisation_members
		  WHERE
		    org_id = ?
		    AND user_id = ?
		);
	`)
	err := h.GetContext(ctx, &member, query, orgID, userID)
	return member, db.WrapError(err)
}
