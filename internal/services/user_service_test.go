package services

import (
	"context"
	"errors"
	"testing"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/storage/filestore"
	"github.com/csg-hackathon/dilbot/internal/models"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new filestore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewUserService(store, "admin", "hunter2")
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "maya", "maya@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("password stored without hashing: %q", user.PasswordHash)
	}

	role, err := svc.Authenticate(ctx, "maya", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if role != models.RoleUser {
		t.Fatalf("role = %q, want %q", role, models.RoleUser)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "maya", "maya@example.com", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "maya", "other@example.com", "pw"); !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestRegisterReservedAdminName(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)

	if _, err := svc.Register(context.Background(), "admin", "admin@example.com", "pw"); !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)

	for _, email := range []string{"not-an-email", "missing@tld", "@example.com", ""} {
		if _, err := svc.Register(context.Background(), "maya", email, "pw"); !errors.Is(err, core.ErrInvalidEmail) {
			t.Fatalf("email %q: err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestAuthenticateAdminShortCircuit(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)
	ctx := context.Background()

	role, err := svc.Authenticate(ctx, "admin", "hunter2")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if role != models.RoleAdmin {
		t.Fatalf("role = %q, want %q", role, models.RoleAdmin)
	}

	if _, err := svc.Authenticate(ctx, "admin", "wrong"); !errors.Is(err, core.ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)

	if _, err := svc.Authenticate(context.Background(), "ghost", "pw"); !errors.Is(err, core.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	t.Parallel()
	svc := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "maya", "maya@example.com", "right"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "maya", "wrong"); !errors.Is(err, core.ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}
