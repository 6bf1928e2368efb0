package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestWrapErrorBadNoRows(t *testing.T) {
	for _, e := range []error{
		fmt.Errorf("foo"),
		errors.New("bar"),
	} {
		if err := WrapError(e); err != e {
			t.Errorf("WrapError(%v) => %v, want %v", e, err, e)
		}
	}
}

func TestWrapErrorGoodNoRows(t *testing.T) {
	if err := WrapError(sql.ErrNoRows); err != ErrRecordNotFound {
		t.Errorf("WrapError(sql.ErrNoRows) => %v, want %v", err, ErrRecordNotFound)
	}
	if err := WrapError(fmt.Errorf("get user: %w", sql.ErrNoRows)); err != ErrRecordNotFound {
		t.Errorf("WrapError(wrapped sql.ErrNoRows) => %v, want %v", err, ErrRecordNotFound)
	}
}

func TestWrapErrorPostgres(t *testing.T) {
	cases := []struct {
		code pq.ErrorCode
		want error
	}{
		{"23505", ErrDuplicateKey},
		{"23503", ErrForeignKey},
	}
	for _, c := range cases {
		in := &pq.Error{Code: c.code}
		if err := WrapError(in); err != c.want {
			t.Errorf("WrapError(%s) => %v, want %v", c.code, err, c.want)
		}
	}

	other := &pq.Error{Code: "42601"}
	if err := WrapError(other); err != error(other) {
		t.Errorf("WrapError(42601) => %v, want unchanged", err)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if err := WrapError(nil); err != nil {
		t.Errorf("WrapError(nil) => %v, want nil", err)
	}
}
