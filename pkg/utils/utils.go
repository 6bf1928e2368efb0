package utils

import (
	"fmt"
	"unicode/utf8"

	"github.com/orgsvc/orgsvc/pkg/proto"
)

// MaxPasswordLength is the longest password, in bytes, that bcrypt can hash.
const MaxPasswordLength = 72

const (
	// MaxTextLength is the longest name, email, or description, in
	// characters, that storage accepts.
	MaxTextLength = 128

	// MaxPhoneLength is the longest phone number, in characters, that
	// storage accepts.
	MaxPhoneLength = 32
)

// RequireText appends a validation error to errs when t is missing, empty, or
// not a string.
func RequireText(errs *proto.ValidationErrors, field string, t proto.Text) {
	switch {
	case t.Empty():
		errs.Required(field)
	case !t.IsText():
		errs.NotText(field)
	}
}

// OptionalText appends a validation error to errs when t is present but not a
// string.
func OptionalText(errs *proto.ValidationErrors, field string, t proto.Text) {
	if t.Present() && !t.IsText() {
		errs.NotText(field)
	}
}

// ValidatePassword appends a validation error to errs when the password is
// too long to be hashed.
func ValidatePassword(errs *proto.ValidationErrors, field string, t proto.Text) {
	if len(t.Value()) > MaxPasswordLength {
		*errs = append(*errs, proto.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordLength),
		})
	}
}

// ValidateLength appends a validation error to errs when t is longer than max
// characters.
func ValidateLength(errs *proto.ValidationErrors, field string, t proto.Text, max int) {
	if utf8.RuneCountInString(t.Value()) > max {
		*errs = append(*errs, proto.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, max),
		})
	}
}

// Truncate shortens s to at most max characters.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
