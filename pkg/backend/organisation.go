package backend

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
	"github.com/orgsvc/orgsvc/pkg/proto"
	"github.com/orgsvc/orgsvc/pkg/utils"
)

func organisationFromModel(m models.Organisation) proto.Organisation {
	o := proto.Organisation{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	if m.Description.Valid {
		desc := m.Description.String
		o.Description = &desc
	}
	return o
}

// ListMyOrganisations returns every organisation the requester belongs to.
func (d *Backend) ListMyOrganisations(ctx context.Context, requester string) ([]proto.Organisation, error) {
	if _, err := d.User(ctx, requester); err != nil {
		return nil, err
	}

	ms, err := d.store.ListOrganisationsByUserID(ctx, d.db, requester)
	if err != nil {
		d.logger.Error("error listing organisations", "user", requester, "err", err)
		return nil, err
	}

	orgs := make([]proto.Organisation, 0, len(ms))
	for _, m := range ms {
		orgs = append(orgs, organisationFromModel(m))
	}

	return orgs, nil
}

// GetOrganisationRecord returns an organisation the requester belongs to.
//
// A missing organisation and one the requester is not a member of both
// return proto.ErrOrganisationInaccessible.
func (d *Backend) GetOrganisationRecord(ctx context.Context, requester, id string) (proto.Organisation, error) {
	if _, err := d.User(ctx, requester); err != nil {
		return proto.Organisation{}, err
	}

	var m models.Organisation
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.checkMember(ctx, tx, id, requester); err != nil {
			return err
		}

		var err error
		m, err = d.store.GetOrganisationByID(ctx, tx, id)
		return err
	}); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.Organisation{}, proto.ErrOrganisationInaccessible
		}
		return proto.Organisation{}, d.unexpected(err, "error getting organisation", "org", id)
	}

	return organisationFromModel(m), nil
}

// CreateOrganisation creates an organisation with creator as its only
// member.
func (d *Backend) CreateOrganisation(ctx context.Context, creator string, opts proto.OrganisationOptions) (proto.Organisation, error) {
	var errs proto.ValidationErrors
	utils.RequireText(&errs, "name", opts.Name)
	utils.OptionalText(&errs, "description", opts.Description)
	utils.ValidateLength(&errs, "name", opts.Name, utils.MaxTextLength)
	utils.ValidateLength(&errs, "description", opts.Description, utils.MaxTextLength)
	if err := errs.Err(); err != nil {
		return proto.Organisation{}, err
	}

	if _, err := d.User(ctx, creator); err != nil {
		return proto.Organisation{}, err
	}

	org := models.Organisation{
		ID:   uuid.NewString(),
		Name: opts.Name.Value(),
	}
	if desc := opts.Description.Ptr(); desc != nil {
		org.Description.String = *desc
		org.Description.Valid = true
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.store.CreateOrganisation(ctx, tx, org, creator); err != nil {
			return err
		}

		created, err := d.store.GetOrganisationByID(ctx, tx, org.ID)
		if err != nil {
			return err
		}

		org = created
		return nil
	}); err != nil {
		if errors.Is(err, db.ErrForeignKey) {
			return proto.Organisation{}, proto.ErrUserNotFound
		}
		return proto.Organisation{}, d.unexpected(err, "error creating organisation", "creator", creator)
	}

	membershipCounter.WithLabelValues("create_organisation").Inc()
	d.logger.Info("organisation created", "org", org.ID, "creator", creator)

	return organisationFromModel(org), nil
}

// AddMember adds a user to an organisation. Adding an existing member
// succeeds without creating a second membership.
//
// Under the members-only policy the requester must belong to the
// organisation, and a non-member gets the same proto.ErrOrganisationNotFound
// as a missing organisation. Under the open policy requester is ignored.
func (d *Backend) AddMember(ctx context.Context, requester, orgID string, opts proto.MemberOptions) error {
	var errs proto.ValidationErrors
	utils.RequireText(&errs, "userId", opts.UserID)
	if err := errs.Err(); err != nil {
		return err
	}

	userID := opts.UserID.Value()
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetOrganisationByID(ctx, tx, orgID); err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				return proto.ErrOrganisationNotFound
			}
			return err
		}

		if d.AddMemberPolicy().RequiresMembership() {
			if err := d.checkMember(ctx, tx, orgID, requester); err != nil {
				if errors.Is(err, db.ErrRecordNotFound) {
					return proto.ErrOrganisationNotFound
				}
				return err
			}
		}

		if _, err := d.store.GetUserByID(ctx, tx, userID); err != nil {
			if errors.Is(err, db.ErrRecordNotFound) {
				return proto.ErrMemberNotFound
			}
			return err
		}

		return d.store.AddUserToOrganisation(ctx, tx, orgID, userID)
	}); err != nil {
		if errors.Is(err, proto.ErrNotFound) {
			return err
		}
		if errors.Is(err, db.ErrForeignKey) {
			return proto.ErrMemberNotFound
		}
		return d.unexpected(err, "error adding member", "org", orgID, "user", userID)
	}

	membershipCounter.WithLabelValues("add_member").Inc()
	d.logger.Debug("member added", "org", orgID, "user", userID, "requester", requester)

	return nil
}

// ListMembers returns the members of an organisation the requester belongs
// to, with the same not found behaviour as GetOrganisationRecord.
func (d *Backend) ListMembers(ctx context.Context, requester, orgID string) ([]proto.User, error) {
	if _, err := d.User(ctx, requester); err != nil {
		return nil, err
	}

	var ms []models.User
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.checkMember(ctx, tx, orgID, requester); err != nil {
			return err
		}

		var err error
		ms, err = d.store.ListUsersByOrganisationID(ctx, tx, orgID)
		return err
	}); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, proto.ErrOrganisationInaccessible
		}
		return nil, d.unexpected(err, "error listing members", "org", orgID)
	}

	return usersFromModels(ms), nil
}

// Organisation returns an organisation by id without any membership check.
func (d *Backend) Organisation(ctx context.Context, id string) (proto.Organisation, error) {
	m, err := d.store.GetOrganisationByID(ctx, d.db, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.Organisation{}, proto.ErrOrganisationNotFound
		}
		return proto.Organisation{}, d.unexpected(err, "error getting organisation", "org", id)
	}

	return organisationFromModel(m), nil
}

// Members returns the members of an organisation without any membership
// check.
func (d *Backend) Members(ctx context.Context, orgID string) ([]proto.User, error) {
	if _, err := d.Organisation(ctx, orgID); err != nil {
		return nil, err
	}

	ms, err := d.store.ListUsersByOrganisationID(ctx, d.db, orgID)
	if err != nil {
		return nil, d.unexpected(err, "error listing members", "org", orgID)
	}

	return usersFromModels(ms), nil
}

// checkMember returns db.ErrRecordNotFound when userID is not a member of
// orgID.
func (d *Backend) checkMember(ctx context.Context, h db.Handler, orgID, userID string) error {
	if userID == "" {
		return db.ErrRecordNotFound
	}

	ok, err := d.store.IsOrganisationMember(ctx, h, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return db.ErrRecordNotFound
	}

	return nil
}

func usersFromModels(ms []models.User) []proto.User {
	users := make([]proto.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, userFromModel(m))
	}
	return users
}

// unexpected logs an error that has no domain meaning and returns it.
func (d *Backend) unexpected(err error, msg string, keyvals ...interface{}) error {
	d.logger.Error(msg, append(keyvals, "err", err)...)
	return err
}
