package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestUserService_GetProfile(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	id := env.register(t, "Alice", "alice@example.com", "secret1")

	user, err := env.users.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := env.users.GetProfile(context.Background(), "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	id := env.register(t, "Alice", "alice@example.com", "secret1")
	env.register(t, "Bob", "bob@example.com", "secret1")
	before, _ := env.repo.FindByID(ctx, id)

	updated, err := env.users.UpdateProfile(ctx, id, ports.UpdateProfileInput{
		Fullname: strPtr(" Alice L. "),
		Email:    strPtr("ALICE.L@example.com"),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Fullname != "Alice L." || updated.Email != "alice.l@example.com" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.PasswordHash != before.PasswordHash {
		t.Fatalf("profile update touched the password hash")
	}
	if _, err := env.auth.Login(ctx, "alice.l@example.com", "secret1"); err != nil {
		t.Fatalf("login with new email: %v", err)
	}

	if _, err := env.users.UpdateProfile(ctx, id, ports.UpdateProfileInput{Email: strPtr("bob@example.com")}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := env.users.UpdateProfile(ctx, id, ports.UpdateProfileInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on empty patch, got %v", err)
	}
	if _, err := env.users.UpdateProfile(ctx, id, ports.UpdateProfileInput{Fullname: strPtr("  ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on blank fullname, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	for i := range 5 {
		env.register(t, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i), "secret1")
	}

	page, err := env.users.ListUsers(ctx, ports.ListUsersFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || len(page.Users) != 2 || page.Page != 2 || page.Limit != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	page, _ = env.users.ListUsers(ctx, ports.ListUsersFilter{})
	if page.Page != 1 || page.Limit != defaultPageLimit || len(page.Users) != 5 {
		t.Fatalf("defaults not applied: %+v", page)
	}

	page, _ = env.users.ListUsers(ctx, ports.ListUsersFilter{Page: 1, Limit: 1000})
	if page.Limit != maxPageLimit {
		t.Fatalf("limit not capped: %d", page.Limit)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	admin := env.register(t, "Admin", "admin@example.com", "secret1")
	alice := env.register(t, "Alice", "alice@example.com", "secret1")
	role := domain.RoleAdmin
	_, _ = env.repo.UpdateFields(ctx, admin, ports.UserPatch{Role: &role})
	before, _ := env.repo.FindByID(ctx, alice)

	updated, err := env.users.UpdateRole(ctx, admin, alice, domain.RoleEditor)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleEditor {
		t.Fatalf("role = %s", updated.Role)
	}
	if updated.PasswordHash != before.PasswordHash {
		t.Fatalf("role update touched the password hash")
	}

	if _, err := env.users.UpdateRole(ctx, admin, alice, domain.Role("superuser")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := env.users.UpdateRole(ctx, admin, admin, domain.RoleContributor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on self-demotion, got %v", err)
	}
	if _, err := env.users.UpdateRole(ctx, admin, "missing", domain.RoleEditor); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})
	ctx := context.Background()
	admin := env.register(t, "Admin", "admin@example.com", "secret1")
	alice := env.register(t, "Alice", "alice@example.com", "secret1")

	updated, err := env.users.SetActive(ctx, admin, alice, false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("user still active")
	}
	if _, err := env.auth.Login(ctx, "alice@example.com", "secret1"); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}

	if _, err := env.users.SetActive(ctx, admin, admin, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on self-deactivation, got %v", err)
	}
	if _, err := env.users.SetActive(ctx, admin, alice, true); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
}
