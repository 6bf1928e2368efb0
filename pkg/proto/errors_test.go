package proto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestValidationErrors(t *testing.T) {
	is := is.New(t)
	var errs ValidationErrors
	is.NoErr(errs.Err())

	errs.Required("firstName")
	errs.NotText("lastName")
	err := errs.Err()
	is.True(err != nil)
	is.True(errors.Is(err, ErrValidation))

	var verrs ValidationErrors
	is.True(errors.As(fmt.Errorf("register: %w", err), &verrs))
	is.Equal(verrs, ValidationErrors{
		{Field: "firstName", Message: "firstName is required"},
		{Field: "lastName", Message: "lastName must be a string"},
	})
	is.Equal(err.Error(), "firstName is required; lastName must be a string")
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{ErrEmailExists, ErrConflict},
		{ErrInvalidCredentials, ErrAuthenticationFailed},
		{ErrResourceProtected, ErrForbidden},
		{ErrUserNotFound, ErrNotFound},
		{ErrMemberNotFound, ErrNotFound},
		{ErrOrganisationInaccessible, ErrNotFound},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("wrapped: %w", c.err)
		if !errors.Is(wrapped, c.target) {
			t.Errorf("errors.Is(%v, %v) => false, want true", c.err, c.target)
		}
	}
}

func TestAuthenticationErrorMessage(t *testing.T) {
	is := is.New(t)
	is.Equal(ErrInvalidCredentials.Error(), "Authentication failed")
	is.Equal((&AuthenticationError{}).Error(), ErrInvalidCredentials.Error())
}

func TestConflictErrors(t *testing.T) {
	is := is.New(t)
	is.Equal(ErrEmailExists.Errors(), ValidationErrors{{Field: "email", Message: "Email already exists"}})
}
