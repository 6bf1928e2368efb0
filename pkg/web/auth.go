package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/proto"
)

var (
	// ErrInvalidToken is returned when a token is invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidHeader is returned when the authorization header is
	// malformed or not a bearer token.
	ErrInvalidHeader = errors.New("invalid authorization header")

	// ErrNoCredentials is returned when the request has no authorization
	// header.
	ErrNoCredentials = errors.New("no credentials")
)

// AuthController registers the registration and login routes.
func AuthController(_ context.Context, r *mux.Router) {
	s := r.PathPrefix("/auth").Subrouter()
	s.HandleFunc("/register", postRegister).Methods(http.MethodPost)
	s.HandleFunc("/login", postLogin).Methods(http.MethodPost)
}

func postRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	var opts proto.RegisterOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	session, err := be.Register(ctx, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusCreated, "Registration successful", session)
}

func postLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	be := backend.FromContext(ctx)

	var opts proto.LoginOptions
	if !decodeJSON(w, r, &opts) {
		return
	}

	session, err := be.Login(ctx, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, http.StatusOK, "Login successful", session)
}

// authenticate returns the user id carried by the request bearer token.
func authenticate(r *http.Request) (string, error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidHeader
	}

	be := backend.FromContext(ctx)
	claims, err := be.Tokens().Decode(strings.TrimSpace(parts[1]))
	if err != nil {
		logger.Debug("failed to decode token", "err", err)
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// withAuth requires a valid bearer token and stores the authenticated user
// id in the request context.
func withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := authenticate(r)
		if err != nil {
			renderUnauthorized(w, r)
			return
		}

		recordUser(w, id)
		ctx := proto.WithUserIDContext(r.Context(), id)
		next(w, r.WithContext(ctx))
	}
}

// withOptionalAuth authenticates the request when it carries credentials and
// lets anonymous requests through. Invalid credentials are still rejected.
func withOptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := authenticate(r)
		switch {
		case errors.Is(err, ErrNoCredentials):
		case err != nil:
			renderUnauthorized(w, r)
			return
		default:
			recordUser(w, id)
			r = r.WithContext(proto.WithUserIDContext(r.Context(), id))
		}

		next(w, r)
	}
}
