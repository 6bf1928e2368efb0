package proto

import "time"

// User is a user's public record. It never carries the password hash.
type User struct {
	ID        string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`

	CreatedAt time.Time `json:"-"`
}

// Session is the result of a successful registration or login.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// RegisterOptions are the inputs of a registration.
type RegisterOptions struct {
	FirstName Text `json:"firstName"`
	LastName  Text `json:"lastName"`
	Email     Text `json:"email"`
	Password  Text `json:"password"`
	Phone     Text `json:"phone"`
}

// LoginOptions are the inputs of a login.
type LoginOptions struct {
	Email    Text `json:"email"`
	Password Text `json:"password"`
}
