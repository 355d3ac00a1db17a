package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a reset token before hex encoding.
const ResetTokenBytes = 32

// NewResetToken returns a random single-use token and the hash to persist.
// Only the hash is stored; the plaintext goes out in the email.
func NewResetToken() (token, hash string, err error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token = hex.EncodeToString(b)
	return token, HashResetToken(token), nil
}

// HashResetToken is the lookup key for a presented reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
