package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
	"github.com/projectlv/accounts/internal/core/security"
	"github.com/projectlv/accounts/internal/infrastructure/db/memory"
)

const testSecret = "test-secret-test-secret-test-secret"

// stubMailer records every message and fails when failWith is set.
type stubMailer struct {
	mu       sync.Mutex
	sent     []ports.EmailMessage
	failWith error
}

func (m *stubMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.failWith
}

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]{64})`)

// lastToken pulls the reset token out of the most recent email.
func (m *stubMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatalf("no email captured")
	}
	match := tokenInLink.FindStringSubmatch(m.sent[len(m.sent)-1].HTML)
	if match == nil {
		t.Fatalf("no reset token in email body")
	}
	return match[1]
}

type testEnv struct {
	repo   *memory.UserRepository
	hasher *security.BcryptHasher
	issuer *security.JWTIssuer
	mailer *stubMailer
	auth   *AuthService
	reset  *ResetService
	users  *UserService
}

func newTestEnv(t *testing.T, authOpts AuthOptions) *testEnv {
	t.Helper()

	repo := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	issuer, err := security.NewJWTIssuer(testSecret, "")
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	auth, err := NewAuthService(repo, hasher, issuer, zerolog.Nop(), authOpts)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	mailer := &stubMailer{}

	return &testEnv{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		mailer: mailer,
		auth:   auth,
		reset:  NewResetService(repo, hasher, mailer, zerolog.Nop(), ResetOptions{FrontendURL: "https://app.example.com/"}),
		users:  NewUserService(repo, zerolog.Nop()),
	}
}

func (e *testEnv) register(t *testing.T, fullname, email, password string) string {
	t.Helper()
	u, err := e.auth.Register(context.Background(), ports.RegisterInput{Fullname: fullname, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u.ID
}

// failingRepo wraps a repository and injects errors into selected calls.
type failingRepo struct {
	ports.UserRepository
	findErr  error
	clearErr error
}

func (r *failingRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func (r *failingRepo) ClearResetToken(ctx context.Context, id, hash string) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	return r.UserRepository.ClearResetToken(ctx, id, hash)
}

var errStoreDown = errors.New("connection refused")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
