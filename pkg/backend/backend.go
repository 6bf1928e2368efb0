package backend

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/pkg/access"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/store"
	"github.com/orgsvc/orgsvc/pkg/token"
)

// Backend is the orgsvc backend that handles registration, authentication,
// and organisation membership.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	logger *log.Logger
	cache  *cache
	tokens *token.Issuer

	dummyOnce sync.Once
	dummyHash string
}

// New returns a new orgsvc backend.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store, tokens *token.Issuer) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
		tokens: tokens,
	}

	b.cache = newCache(cfg.Membership.UserCacheSize)

	return b
}

// Tokens returns the token issuer of the backend.
func (d *Backend) Tokens() *token.Issuer {
	return d.tokens
}

// AddMemberPolicy returns the configured add member policy.
func (d *Backend) AddMemberPolicy() access.Policy {
	return d.cfg.Membership.AddMemberPolicy
}
