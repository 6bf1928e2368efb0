package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/db/models"
	"github.com/orgsvc/orgsvc/pkg/proto"
	"github.com/orgsvc/orgsvc/pkg/utils"
)

func userFromModel(m models.User) proto.User {
	u := proto.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
	if m.Phone.Valid {
		phone := m.Phone.String
		u.Phone = &phone
	}
	return u
}

// Register creates a user together with a personal organisation and returns
// a session for the new user.
//
// Every invalid field is reported at once as proto.ValidationErrors. A taken
// email returns proto.ErrEmailExists.
func (d *Backend) Register(ctx context.Context, opts proto.RegisterOptions) (proto.Session, error) {
	var errs proto.ValidationErrors
	utils.RequireText(&errs, "firstName", opts.FirstName)
	utils.RequireText(&errs, "lastName", opts.LastName)
	utils.RequireText(&errs, "email", opts.Email)
	utils.RequireText(&errs, "password", opts.Password)
	utils.ValidatePassword(&errs, "password", opts.Password)
	utils.OptionalText(&errs, "phone", opts.Phone)
	utils.ValidateLength(&errs, "firstName", opts.FirstName, utils.MaxTextLength)
	utils.ValidateLength(&errs, "lastName", opts.LastName, utils.MaxTextLength)
	utils.ValidateLength(&errs, "email", opts.Email, utils.MaxTextLength)
	utils.ValidateLength(&errs, "phone", opts.Phone, utils.MaxPhoneLength)
	if err := errs.Err(); err != nil {
		registerCounter.WithLabelValues("invalid").Inc()
		return proto.Session{}, err
	}

	email := opts.Email.Value()
	if _, err := d.store.FindUserByEmail(ctx, d.db, email); err == nil {
		registerCounter.WithLabelValues("conflict").Inc()
		return proto.Session{}, proto.ErrEmailExists
	} else if !errors.Is(err, db.ErrRecordNotFound) {
		d.logger.Error("error finding user by email", "err", err)
		return proto.Session{}, err
	}

	hash, err := HashPassword(opts.Password.Value(), d.cfg.Auth.BcryptCost)
	if err != nil {
		d.logger.Error("error hashing password", "err", err)
		return proto.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		FirstName: opts.FirstName.Value(),
		LastName:  opts.LastName.Value(),
		Email:     email,
		Password:  hash,
	}
	if phone := opts.Phone.Ptr(); phone != nil {
		user.Phone.String = *phone
		user.Phone.Valid = true
	}

	org := models.Organisation{
		ID:   uuid.NewString(),
		Name: personalOrganisationName(user.FirstName),
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.store.CreateUserWithOrganisation(ctx, tx, user, org); err != nil {
			return err
		}

		// Read back to pick up the database timestamps.
		created, err := d.store.GetUserByID(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		user = created
		return nil
	}); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			registerCounter.WithLabelValues("conflict").Inc()
			return proto.Session{}, proto.ErrEmailExists
		}
		d.logger.Error("error creating user", "err", err)
		return proto.Session{}, err
	}

	pub := userFromModel(user)
	d.cache.Set(pub.ID, pub)

	tok, err := d.tokens.Issue(pub.ID)
	if err != nil {
		d.logger.Error("error issuing token", "user", pub.ID, "err", err)
		return proto.Session{}, err
	}

	registerCounter.WithLabelValues("success").Inc()
	d.logger.Info("user registered", "user", pub.ID, "org", org.ID)

	return proto.Session{AccessToken: tok, User: pub}, nil
}

const personalOrganisationSuffix = "'s Organisation"

// personalOrganisationName returns the name of the organisation created on
// registration, shortening firstName so the name fits in storage.
func personalOrganisationName(firstName string) string {
	max := utils.MaxTextLength - utf8.RuneCountInString(personalOrganisationSuffix)
	return utils.Truncate(firstName, max) + personalOrganisationSuffix
}

// Login authenticates a user by email and password and returns a session.
//
// Missing credentials, an unknown email, and a wrong password all return the
// same proto.ErrInvalidCredentials.
func (d *Backend) Login(ctx context.Context, opts proto.LoginOptions) (proto.Session, error) {
	if opts.Email.Empty() || !opts.Email.IsText() ||
		opts.Password.Empty() || !opts.Password.IsText() {
		loginCounter.WithLabelValues("failure").Inc()
		return proto.Session{}, proto.ErrInvalidCredentials
	}

	password := opts.Password.Value()
	if len(password) > utils.MaxPasswordLength {
		loginCounter.WithLabelValues("failure").Inc()
		return proto.Session{}, proto.ErrInvalidCredentials
	}

	m, err := d.store.FindUserByEmail(ctx, d.db, opts.Email.Value())
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			// Burn the same time as a real comparison.
			_, _ = VerifyPassword(password, d.dummyPasswordHash())
			loginCounter.WithLabelValues("failure").Inc()
			return proto.Session{}, proto.ErrInvalidCredentials
		}
		d.logger.Error("error finding user by email", "err", err)
		return proto.Session{}, err
	}

	ok, err := VerifyPassword(password, m.Password)
	if err != nil {
		d.logger.Error("error verifying password", "user", m.ID, "err", err)
		return proto.Session{}, err
	}
	if !ok {
		loginCounter.WithLabelValues("failure").Inc()
		return proto.Session{}, proto.ErrInvalidCredentials
	}

	pub := userFromModel(m)
	tok, err := d.tokens.Issue(pub.ID)
	if err != nil {
		d.logger.Error("error issuing token", "user", pub.ID, "err", err)
		return proto.Session{}, err
	}

	loginCounter.WithLabelValues("success").Inc()

	return proto.Session{AccessToken: tok, User: pub}, nil
}

// IssueToken returns a fresh token for an existing user. A zero ttl uses the
// configured token lifetime.
func (d *Backend) IssueToken(ctx context.Context, id string, ttl time.Duration) (string, error) {
	u, err := d.User(ctx, id)
	if err != nil {
		return "", err
	}

	if ttl == 0 {
		return d.tokens.Issue(u.ID)
	}
	return d.tokens.IssueWithTTL(u.ID, ttl)
}

func (d *Backend) dummyPasswordHash() string {
	d.dummyOnce.Do(func() {
		hash, err := HashPassword(uuid.NewString(), d.cfg.Auth.BcryptCost)
		if err != nil {
			d.logger.Error("error hashing dummy password", "err", err)
		}
		d.dummyHash = hash
	})
	return d.dummyHash
}

// User returns the public record of a user by id. It returns
// proto.ErrUserNotFound when the user doesn't exist.
func (d *Backend) User(ctx context.Context, id string) (proto.User, error) {
	if u, ok := d.cache.Get(id); ok {
		return u, nil
	}

	m, err := d.store.GetUserByID(ctx, d.db, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.User{}, proto.ErrUserNotFound
		}
		d.logger.Error("error finding user", "id", id, "err", err)
		return proto.User{}, err
	}

	u := userFromModel(m)
	d.cache.Set(id, u)

	return u, nil
}

// GetUserRecord returns the public record of target as seen by requester.
//
// A user can always read their own record. Other records are visible only
// when both users share at least one organisation, otherwise
// proto.ErrResourceProtected is returned. An unknown requester returns
// proto.ErrUserNotFound.
func (d *Backend) GetUserRecord(ctx context.Context, requester, target string) (proto.User, error) {
	self, err := d.User(ctx, requester)
	if err != nil {
		return proto.User{}, err
	}

	if requester == target {
		return self, nil
	}

	shared, err := d.store.UsersShareOrganisation(ctx, d.db, requester, target)
	if err != nil {
		d.logger.Error("error checking shared organisations", "requester", requester, "target", target, "err", err)
		return proto.User{}, err
	}
	if !shared {
		return proto.User{}, proto.ErrResourceProtected
	}

	u, err := d.User(ctx, target)
	if errors.Is(err, proto.ErrUserNotFound) {
		return proto.User{}, proto.ErrResourceProtected
	}

	return u, err
}
