// Package security holds the credential primitives: the bcrypt password hasher,
// the JWT session token issuer and reset-token generation.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/projectlv/accounts/internal/core/domain"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, clamped to the range
// bcrypt accepts. A cost of zero selects DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of plaintext with a fresh random salt.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.Validationf("password is required")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", domain.Validationf("password must be at most %d bytes", maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Validationf("password must be at most %d bytes", maxPasswordBytes)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. The salt and cost are read
// from the hash itself and the final comparison is constant-time. Inputs
// longer than bcrypt reads are rejected so a suffix cannot match a prefix.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" || len(plaintext) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
