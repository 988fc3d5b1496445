package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// KeyPrefix starts every generated API key
	KeyPrefix = "dgs_"
	// KeyRandomLength is the bytes of random data in a key
	KeyRandomLength = 32
	// BcryptCost is the cost factor used for key hashes
	BcryptCost = 12
)

// GenerateAPIKey returns a new random API key
func GenerateAPIKey() (string, error) {
	randomBytes := make([]byte, KeyRandomLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return KeyPrefix + base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// HashAPIKey returns the bcrypt hash stored in configuration for key
func HashAPIKey(key string) (string, error) {
	return hashAPIKeyWithCost(key, BcryptCost)
}

func hashAPIKeyWithCost(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidToken)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hashed), nil
}

// APIKeyValidator accepts any key matching one of its bcrypt hashes.
// Keys carry ScopeRead.
type APIKeyValidator struct {
	hashes [][]byte
}

// NewAPIKeyValidator creates a validator over bcrypt hashes. Every hash must
// be well formed.
func NewAPIKeyValidator(hashes []string) (*APIKeyValidator, error) {
	if len(hashes) == 0 {
		return nil, ErrMissingAPIKeys
	}
	v := &APIKeyValidator{hashes: make([][]byte, 0, len(hashes))}
	for i, h := range hashes {
		h = strings.TrimSpace(h)
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("api key hash %d: %w", i, err)
		}
		v.hashes = append(v.hashes, []byte(h))
	}
	return v, nil
}

// ValidateToken checks key against every configured hash.
// Implements TokenValidator.
func (v *APIKeyValidator) ValidateToken(_ context.Context, key string) (*Claims, error) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return nil, ErrInvalidToken
	}
	for i, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			return &Claims{
				Subject: fmt.Sprintf("api-key-%d", i),
				Scope:   ScopeRead,
				Method:  v.Name(),
			}, nil
		}
	}
	return nil, ErrInvalidToken
}

// Name returns the validator name for logging.
// Implements TokenValidator.
func (v *APIKeyValidator) Name() string {
	return "api-key"
}
