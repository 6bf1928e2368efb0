package backend

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	is := is.New(t)
	hash, err := HashPassword("password", bcrypt.MinCost)
	is.NoErr(err)
	is.True(hash != "")
	is.True(hash != "password")

	again, err := HashPassword("password", bcrypt.MinCost)
	is.NoErr(err)
	is.True(hash != again) // salted
}

func TestVerifyPassword(t *testing.T) {
	is := is.New(t)
	hash, err := HashPassword("password", bcrypt.MinCost)
	is.NoErr(err)

	ok, err := VerifyPassword("password", hash)
	is.NoErr(err)
	is.True(ok)

	ok, err = VerifyPassword("wrong", hash)
	is.NoErr(err)
	is.True(!ok)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	_, err := VerifyPassword("password", "not-a-hash")
	if !errors.Is(err, ErrInvalidPasswordHash) {
		t.Errorf("VerifyPassword() => %v, want %v", err, ErrInvalidPasswordHash)
	}
}
