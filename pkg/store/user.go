package store

import (
	"context"

	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error)
	CreateUser(ctx context.Context, h db.Handler, user models.User) error
	// CreateUserWithOrganisation persists the user, the organisation, and
	// the membership edge between them. h should be a transaction.
	CreateUserWithOrganisation(ctx context.Context, h db.Handler, user models.User, org models.Organisation) error
	ListUsersByOrganisationID(ctx context.Context, h db.Handler, orgID string) ([]models.User, error)
	UsersShareOrganisation(ctx context.Context, h db.Handler, a, b string) (bool, error)
}
