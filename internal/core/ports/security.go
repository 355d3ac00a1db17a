package ports

import (
	"time"

	"github.com/projectlv/accounts/internal/core/domain"
)

// PasswordHasher is a slow, salted one-way hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify compares in constant time; any malformed hash is a mismatch.
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints and checks signed session tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.Claims, error)
}
