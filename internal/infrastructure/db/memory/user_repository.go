// Package memory provides process-local implementations of the store and
// limiter ports, used by STORE_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

// UserRepository is a mutex-guarded map with a unique email index.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]string
	now     func() time.Time
}

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.ResetTokenHash != nil {
		h := *u.ResetTokenHash
		c.ResetTokenHash = &h
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &e
	}
	return &c
}

func (r *UserRepository) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}

	u := cloneUser(user)
	u.ID = uuid.NewString()
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) UpdateFields(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, domain.ErrEmailTaken
		}
		delete(r.byEmail, u.Email)
		r.byEmail[*patch.Email] = u.ID
		u.Email = *patch.Email
	}
	if patch.Fullname != nil {
		u.Fullname = *patch.Fullname
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	u.UpdatedAt = r.now().UTC()
	return cloneUser(u), nil
}

func (r *UserRepository) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start < 0 || start >= len(all) {
		return []*domain.User{}, total, nil
	}
	end := min(start+filter.Limit, len(all))

	page := make([]*domain.User, 0, end-start)
	for _, u := range all[start:end] {
		page = append(page, cloneUser(u))
	}
	return page, total, nil
}

func (r *UserRepository) SetResetToken(_ context.Context, id, tokenHash string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	exp := expiry.UTC()
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &exp
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) ClearResetToken(_ context.Context, id, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash {
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
		u.UpdatedAt = r.now().UTC()
	}
	return nil
}

func (r *UserRepository) RedeemResetToken(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.ResetTokenHash == nil || *u.ResetTokenHash != tokenHash {
			continue
		}
		if u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(now) {
			continue
		}
		u.PasswordHash = passwordHash
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
		u.UpdatedAt = r.now().UTC()
		return cloneUser(u), nil
	}
	return nil, domain.ErrInvalidOrExpiredResetToken
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, oldHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.PasswordHash != oldHash {
		return domain.ErrConcurrentUpdate
	}
	u.PasswordHash = newHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	u.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, u := range r.byID {
		if u.ResetTokenExpiry != nil && !u.ResetTokenExpiry.After(now) {
			u.ResetTokenHash = nil
			u.ResetTokenExpiry = nil
			n++
		}
	}
	return n, nil
}
