// Package access defines who may add members to an organisation.
package access

import (
	"encoding"
	"errors"
)

// Policy is the authorization mode applied when adding a user to an
// organisation.
type Policy int

const (
	// MembersOnly allows only existing members of an organisation to add
	// other users to it.
	MembersOnly Policy = iota

	// Open allows any caller, authenticated or not, to add any user to any
	// organisation. This is insecure and only exists for compatibility with
	// clients of the original API.
	Open
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case MembersOnly:
		return "members-only"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy string.
func ParsePolicy(s string) Policy {
	switch s {
	case "members-only":
		return MembersOnly
	case "open":
		return Open
	default:
		return Policy(-1)
	}
}

// RequiresMembership returns whether the requester must belong to the
// organisation.
func (p Policy) RequiresMembership() bool {
	return p != Open
}

var (
	_ encoding.TextMarshaler   = Policy(0)
	_ encoding.TextUnmarshaler = (*Policy)(nil)
)

// ErrInvalidPolicy is returned when an invalid policy is provided.
var ErrInvalidPolicy = errors.New("invalid add member policy")

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	l := ParsePolicy(string(text))
	if l < 0 {
		return ErrInvalidPolicy
	}

	*p = l

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() (text []byte, err error) {
	return []byte(p.String()), nil
}
