package proto

import "time"

// Organisation is an organisation's public record.
type Organisation struct {
	ID          string  `json:"orgId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`

	CreatedAt time.Time `json:"-"`
}

// OrganisationOptions are the inputs for creating an organisation.
type OrganisationOptions struct {
	Name        Text `json:"name"`
	Description Text `json:"description"`
}

// MemberOptions are the inputs for adding a user to an organisation.
type MemberOptions struct {
	UserID Text `json:"userId"`
}
