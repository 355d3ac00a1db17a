package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/projectlv/accounts/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var alice = domain.Identity{
	UserID:   "user-1",
	Role:     domain.RoleContributor,
	Email:    "alice@example.com",
	Fullname: "Alice Liddell",
}

func newTestIssuer(t *testing.T, now *time.Time) *JWTIssuer {
	t.Helper()
	j, err := NewJWTIssuer(testSecret, "accounts-test")
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	j.now = func() time.Time { return *now }
	return j
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j := newTestIssuer(t, &now)

	token, exp, err := j.Issue(alice, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiresAt = %s", exp)
	}

	now = now.Add(59 * time.Minute)
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}
	if claims.Identity != alice {
		t.Fatalf("identity mismatch: %+v", claims.Identity)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected a jti")
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("claims expiry = %s, want %s", claims.ExpiresAt, exp)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j := newTestIssuer(t, &now)

	token, _, err := j.Issue(alice, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = now.Add(time.Hour + time.Second)
	_, err = j.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expired token error must classify as ErrInvalidToken")
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	now := time.Now()
	j := newTestIssuer(t, &now)
	other, _ := NewJWTIssuer("another-secret-another-secret-xx", "accounts-test")

	token, _, _ := other.Issue(alice, time.Hour)
	if _, err := j.Verify(token); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestJWTIssuer_BitFlipNeverVerifies(t *testing.T) {
	now := time.Now()
	j := newTestIssuer(t, &now)

	token, _, err := j.Issue(alice, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < len(token); i++ {
		for bit := 0; bit < 8; bit++ {
			b := []byte(token)
			b[i] ^= 1 << bit
			_, err := j.Verify(string(b))
			if err == nil {
				t.Fatalf("flipping bit %d of byte %d produced a valid token", bit, i)
			}
			if !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("byte %d bit %d: unexpected error class %v", i, bit, err)
			}
		}
	}
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	j := newTestIssuer(t, &now)

	claims := jwt.MapClaims{
		"sub": "user-1",
		"iss": "accounts-test",
		"exp": now.Add(time.Hour).Unix(),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := j.Verify(none); err == nil {
		t.Fatalf("alg=none token was accepted")
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if _, err := j.Verify(hs512); err == nil {
		t.Fatalf("HS512 token was accepted")
	}
}

func TestJWTIssuer_MissingExpiry(t *testing.T) {
	now := time.Now()
	j := newTestIssuer(t, &now)

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"iss": "accounts-test",
	}).SignedString([]byte(testSecret))

	if _, err := j.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestJWTIssuer_Malformed(t *testing.T) {
	now := time.Now()
	j := newTestIssuer(t, &now)

	for _, raw := range []string{"", "not-a-token", "a.b.c", "a.b"} {
		if _, err := j.Verify(raw); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("Verify(%q): expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestJWTIssuer_IssueValidation(t *testing.T) {
	if _, err := NewJWTIssuer("", ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}

	now := time.Now()
	j := newTestIssuer(t, &now)
	if _, _, err := j.Issue(alice, 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
	if _, _, err := j.Issue(domain.Identity{}, time.Hour); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
