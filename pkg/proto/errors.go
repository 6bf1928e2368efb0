package proto

import (
	"errors"
	"strings"
)

var (
	// ErrAuthenticationFailed matches every *AuthenticationError.
	ErrAuthenticationFailed = errors.New("Authentication failed") //nolint:revive,stylecheck
	// ErrForbidden matches every *ForbiddenError.
	ErrForbidden = errors.New("Resource protected") //nolint:revive,stylecheck
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches every *ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrValidation matches every ValidationErrors.
	ErrValidation = errors.New("validation failed")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = &NotFoundError{Message: "User not found"}
	// ErrMemberNotFound is returned when the user being added to an
	// organisation does not exist.
	ErrMemberNotFound = &NotFoundError{Field: "userId", Message: "User does not exist"}
	// ErrOrganisationNotFound is returned when an organisation does not
	// exist.
	ErrOrganisationNotFound = &NotFoundError{Message: "Organisation not found"}
	// ErrOrganisationInaccessible is returned both when an organisation does
	// not exist and when the requester is not one of its members.
	ErrOrganisationInaccessible = &NotFoundError{Message: "Organisation not found or access denied"}
	// ErrEmailExists is returned when registering an email that is taken.
	ErrEmailExists = &ConflictError{Field: "email", Message: "Email already exists"}
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = &AuthenticationError{}
	// ErrResourceProtected is returned when a user record is not visible to
	// the requester.
	ErrResourceProtected = &ForbiddenError{}
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is an ordered list of every validation failure of a
// request.
type ValidationErrors []FieldError

// Error implements error.
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is lets errors.Is match ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Required appends a "<field> is required" error.
func (v *ValidationErrors) Required(field string) {
	*v = append(*v, FieldError{Field: field, Message: field + " is required"})
}

// NotText appends a "<field> must be a string" error.
func (v *ValidationErrors) NotText(field string) {
	*v = append(*v, FieldError{Field: field, Message: field + " must be a string"})
}

// Err returns v as an error, or nil when there are no failures.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ConflictError is returned when a write would violate a uniqueness rule.
type ConflictError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ConflictError) Error() string { return e.Message }

// Is lets errors.Is match ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Errors returns the conflict as a field error list.
func (e *ConflictError) Errors() ValidationErrors {
	return ValidationErrors{{Field: e.Field, Message: e.Message}}
}

// AuthenticationError is returned when credentials are missing or wrong. It
// carries no detail about which part was wrong.
type AuthenticationError struct{}

// Error implements error.
func (*AuthenticationError) Error() string { return ErrAuthenticationFailed.Error() }

// Is lets errors.Is match ErrAuthenticationFailed.
func (*AuthenticationError) Is(target error) bool { return target == ErrAuthenticationFailed }

// ForbiddenError is returned when an authenticated user may not see a
// resource.
type ForbiddenError struct{}

// Error implements error.
func (*ForbiddenError) Error() string { return ErrForbidden.Error() }

// Is lets errors.Is match ErrForbidden.
func (*ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError is returned when an entity is absent or deliberately hidden.
type NotFoundError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *NotFoundError) Error() string { return e.Message }

// Is lets errors.Is match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
