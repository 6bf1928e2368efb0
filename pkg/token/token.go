// Package token mints and decodes the bearer tokens handed out on
// registration and login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/jwk"
)

// ErrEmptySecret is returned when the hs256 signing method is configured
// without a secret.
var ErrEmptySecret = errors.New("empty token secret")

// ErrInvalidTTL is returned when a token is requested with a non-positive
// lifetime.
var ErrInvalidTTL = errors.New("token lifetime must be positive")

// DecodeError is returned when a token cannot be decoded. It wraps the
// underlying parse or validation error.
type DecodeError struct {
	Err error
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid token: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Claims are the decoded contents of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens.
type Issuer struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	keyID     string
	keySet    *jose.JSONWebKeySet
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewIssuer returns an Issuer for the configured signing method.
func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	i := &Issuer{
		issuer: cfg.HTTP.PublicURL,
		ttl:    cfg.Auth.TTL(),
		now:    time.Now,
	}

	switch cfg.Auth.SigningMethod {
	case config.SigningMethodHS256, "":
		if cfg.Auth.JWTSecret == "" {
			return nil, ErrEmptySecret
		}
		i.method = jwt.SigningMethodHS256
		i.signKey = []byte(cfg.Auth.JWTSecret)
		i.verifyKey = i.signKey
	case config.SigningMethodEdDSA:
		kp, err := jwk.NewPair(cfg)
		if err != nil {
			return nil, err
		}
		ks := kp.JWKS()
		i.method = jwk.SigningMethod
		i.signKey = kp.PrivateKey()
		i.verifyKey = kp.PublicKey()
		i.keyID = kp.JWK().KeyID
		i.keySet = &ks
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSigningMethod, cfg.Auth.SigningMethod)
	}

	return i, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Algorithm returns the JWT algorithm tokens are signed with.
func (i *Issuer) Algorithm() string {
	return i.method.Alg()
}

// KeySet returns the public key set used to verify tokens. It is nil for
// symmetric signing methods.
func (i *Issuer) KeySet() *jose.JSONWebKeySet {
	return i.keySet
}

// Issue returns a signed token for subject that expires after the configured
// TTL.
func (i *Issuer) Issue(subject string) (string, error) {
	return i.IssueWithTTL(subject, i.ttl)
}

// IssueWithTTL returns a signed token for subject that expires after ttl.
func (i *Issuer) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    i.issuer,
	}

	token := jwt.NewWithClaims(i.method, claims)
	if i.keyID != "" {
		token.Header["kid"] = i.keyID
	}

	signed, err := token.SignedString(i.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the token and returns its claims. Any failure, including
// expiry, is returned as a *DecodeError.
func (i *Issuer) Decode(bearer string) (Claims, error) {
	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return i.verifyKey, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Claims{}, &DecodeError{Err: err}
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok {
		return Claims{}, &DecodeError{Err: jwt.ErrTokenInvalidClaims}
	}

	if claims.Subject == "" {
		return Claims{}, &DecodeError{Err: jwt.ErrTokenInvalidSubject}
	}

	c := Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		c.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		c.ExpiresAt = claims.ExpiresAt.Time
	}

	return c, nil
}
