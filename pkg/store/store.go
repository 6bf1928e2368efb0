package store

// Store is an interface for managing users, organisations, and their
// memberships.
type Store interface {
	UserStore
	OrganisationStore
}
