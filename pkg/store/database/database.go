// Package database implements store.Store on top of a SQL database.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/store"
)

type datastore struct {
	ctx    context.Context
	db     *db.DB
	logger *log.Logger

	*userStore
	*orgStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	logger := log.FromContext(ctx).WithPrefix("store")
	orgs := &orgStore{}

	s := &datastore{
		ctx:    ctx,
		db:     db,
		logger: logger,

		userStore: &userStore{orgs},
		orgStore:  orgs,
	}

	return s
}
