package models

import (
	"database/sql"
	"time"
)

// Organisation represents an organisation in the system.
type Organisation struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// OrganisationMember represents a member of an organisation.
type OrganisationMember struct {
	OrganisationID string    `db:"org_id"`
	UserID         string    `db:"user_id"`
	CreatedAt      time.Time `db:"created_at"`
}
