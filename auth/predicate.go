// Package auth extracts the caller's access-control predicate from request
// credentials. The predicate itself is computed elsewhere (at grant time) and
// carried as an opaque claim; this package only verifies the credential and
// hands the predicate to the resolver.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultPredicateClaim is the token claim carrying the access-control
// predicate.
const DefaultPredicateClaim = "accessPredicate"

// ErrInvalidToken is returned when a presented credential cannot be verified.
var ErrInvalidToken = errors.New("invalid bearer token")

// PredicateSource yields the access-control predicate for a request. An empty
// predicate means unrestricted access, so implementations must only return it
// for callers entitled to that.
type PredicateSource interface {
	Predicate(r *http.Request) (string, error)
}

// Static is a PredicateSource returning a fixed predicate, useful for tests
// and for deployments where the whole service runs under one filter.
type Static struct {
	Value string
}

// Predicate returns the fixed predicate.
func (s Static) Predicate(*http.Request) (string, error) {
	return s.Value, nil
}

// JWTSource reads the predicate from a claim of a verified HMAC-signed
// bearer token. Requests without a token get the configured anonymous
// predicate; requests with an unverifiable token are rejected.
type JWTSource struct {
	secret    []byte
	claim     string
	anonymous string
}

// NewJWTSource creates a JWTSource. claim defaults to DefaultPredicateClaim.
// anonymous is the predicate applied when no credential is presented; leave
// it empty only if anonymous callers may see everything.
func NewJWTSource(secret, claim, anonymous string) (*JWTSource, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if claim == "" {
		claim = DefaultPredicateClaim
	}
	return &JWTSource{
		secret:    []byte(secret),
		claim:     claim,
		anonymous: anonymous,
	}, nil
}

// Predicate implements PredicateSource.
func (s *JWTSource) Predicate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return s.anonymous, nil
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", fmt.Errorf("%w: authorization header is not a bearer token", ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	predicate, _ := claims[s.claim].(string)
	if predicate == "" {
		// Verified caller without an explicit grant falls back to the
		// anonymous filter rather than unrestricted access.
		return s.anonymous, nil
	}
	return predicate, nil
}
