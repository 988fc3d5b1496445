// Package auth authenticates API callers with signed tokens or API keys.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TokenValidator turns a bearer credential into the caller's claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
	// Name identifies the credential kind in logs and claims
	Name() string
}

// ErrNoValidatorMatched is returned by an empty Chain
var ErrNoValidatorMatched = errors.New("no validator could validate the token")

// Chain accepts a credential if any of its validators does. JWTs and API
// keys share the Authorization header, so each validator is tried in turn.
type Chain []TokenValidator

// ValidateToken returns the first successful validation. When every
// validator rejects the token, an expired JWT is reported in preference to
// a generic rejection so callers can tell the client to refresh.
func (c Chain) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if len(c) == 0 {
		return nil, ErrNoValidatorMatched
	}

	errs := make([]error, 0, len(c))
	for _, v := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		claims, err := v.ValidateToken(ctx, token)
		if err == nil {
			return claims, nil
		}
		if errors.Is(err, ErrExpiredToken) {
			return nil, err
		}
		errs = append(errs, fmt.Errorf("%s: %w", v.Name(), err))
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidToken, errors.Join(errs...))
}

// Name lists the chained validators, e.g. "jwt-hs256|api-key"
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, v := range c {
		names[i] = v.Name()
	}
	return strings.Join(names, "|")
}

type claimsKey struct{}

// WithClaims returns a context carrying the authenticated caller
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the authenticated caller, if any
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}
