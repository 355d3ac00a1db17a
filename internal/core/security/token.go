package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/projectlv/accounts/internal/core/domain"
)

// DefaultIssuer is the iss claim when none is configured.
const DefaultIssuer = "accounts"

var errEmptySecret = errors.New("jwt secret must not be empty")

// sessionClaims is the JWT payload. Registered claims carry sub, iss, iat,
// exp and jti; the profile fields ride alongside.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

// JWTIssuer signs and verifies HS256 session tokens with a server-held secret.
// The secret is fixed at construction and never changes afterwards.
type JWTIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTIssuer binds the signing secret into a new issuer.
func NewJWTIssuer(secret, issuer string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &JWTIssuer{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue mints a token for identity that expires after ttl.
func (j *JWTIssuer) Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("issue token: ttl must be positive, got %s", ttl)
	}
	if identity.UserID == "" {
		return "", time.Time{}, errors.New("issue token: subject is required")
	}

	now := j.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Role:     string(identity.Role),
		Email:    identity.Email,
		Fullname: identity.Fullname,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry, and returns the
// decoded claims. Failures are one of domain.ErrTokenExpired,
// domain.ErrTokenSignatureInvalid or domain.ErrTokenMalformed.
func (j *JWTIssuer) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Claims{
		Identity: domain.Identity{
			UserID:   claims.Subject,
			Role:     domain.Role(claims.Role),
			Email:    claims.Email,
			Fullname: claims.Fullname,
		},
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
