package security

import (
	"encoding/hex"
	"testing"
)

func TestNewResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}

	raw, err := hex.DecodeString(token)
	if err != nil || len(raw) != ResetTokenBytes {
		t.Fatalf("token is not %d hex-encoded bytes: %q", ResetTokenBytes, token)
	}
	if hash == token {
		t.Fatalf("hash must differ from the plaintext token")
	}
	if HashResetToken(token) != hash {
		t.Fatalf("HashResetToken is not deterministic")
	}

	other, _, _ := NewResetToken()
	if other == token {
		t.Fatalf("two tokens collided")
	}
}
