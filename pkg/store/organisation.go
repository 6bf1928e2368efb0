package store

import (
	"context"

	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
)

// OrganisationStore is a store for organisations and their members.
type OrganisationStore interface {
	GetOrganisationByID(ctx context.Context, h db.Handler, id string) (models.Organisation, error)
	// CreateOrganisation persists the organisation with creator as its first
	// member. h should be a transaction.
	CreateOrganisation(ctx context.Context, h db.Handler, org models.Organisation, creator string) error
	ListOrganisationsByUserID(ctx context.Context, h db.Handler, userID string) ([]models.Organisation, error)
	// AddUserToOrganisation adds a membership edge. Adding an existing
	// member is a no-op.
	AddUserToOrganisation(ctx context.Context, h db.Handler, orgID, userID string) error
	IsOrganisationMember(ctx context.Context, h db.Handler, orgID, userID string) (bool, error)
}
