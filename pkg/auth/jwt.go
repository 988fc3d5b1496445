package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInvalidClaims  = errors.New("invalid token claims")
	ErrEmptySubject   = errors.New("subject cannot be empty")
	ErrInvalidScope   = errors.New("invalid scope")
	ErrShortSecret    = errors.New("secret must be at least 32 characters")
	ErrInvalidTTL     = errors.New("token lifetime must be positive")
	ErrMissingAPIKeys = errors.New("no API key hashes configured")
)

// Scopes a token can carry
const (
	ScopeRead  = "read"
	ScopeAdmin = "admin"
)

var validScopes = map[string]bool{
	ScopeRead:  true,
	ScopeAdmin: true,
}

// TokenIssuer is the iss claim of every token this package signs
const TokenIssuer = "degrees"

// Claims identifies the caller a request was authenticated as
type Claims struct {
	Subject   string    `json:"subject"`
	Scope     string    `json:"scope"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	IssuedAt  time.Time `json:"issued_at,omitzero"`
}

type tokenClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates HS256 tokens
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a JWT manager.
// Returns an error if the secret is shorter than 32 characters.
func NewJWTManager(secret string, tokenDuration time.Duration) (*JWTManager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	if tokenDuration <= 0 {
		return nil, ErrInvalidTTL
	}

	return &JWTManager{
		secretKey:     []byte(secret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// GenerateToken signs a token for subject carrying scope
func (m *JWTManager) GenerateToken(subject, scope string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if !validScopes[scope] {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	now := m.now()
	claims := tokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a token and returns its claims.
// Implements TokenValidator.
func (m *JWTManager) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	if !validScopes[claims.Scope] {
		return nil, fmt.Errorf("%w: scope %q", ErrInvalidClaims, claims.Scope)
	}

	out := &Claims{
		Subject: claims.Subject,
		Scope:   claims.Scope,
		Method:  m.Name(),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// Name returns the validator name for logging.
// Implements TokenValidator.
func (m *JWTManager) Name() string {
	return "jwt-hs256"
}

// TokenDuration returns the lifetime of generated tokens
func (m *JWTManager) TokenDuration() time.Duration {
	return m.tokenDuration
}
