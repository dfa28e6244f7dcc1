package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	emailPattern    = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)
)

// UserService handles signup and login. The admin account is configured
// out of band and never lives in the store.
type UserService struct {
	store         core.Store
	adminUsername string
	adminPassword string
}

func NewUserService(store core.Store, adminUsername, adminPassword string) *UserService {
	return &UserService{
		store:         store,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Register creates a new account. The admin username is reserved, so a
// signup under it fails the same way a taken name does.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}
	if username == s.adminUsername {
		return nil, core.ErrDuplicateUser
	}

	existing, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorage, err)
	}
	if existing != nil {
		return nil, core.ErrDuplicateUser
	}

	if !emailPattern.MatchString(email) {
		return nil, core.ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and reports the session role. The
// admin credentials are compared in constant time and short-circuit the
// store entirely.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.Role, error) {
	if s.adminUsername != "" && username == s.adminUsername {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1 {
			return models.RoleAdmin, nil
		}
		return "", core.ErrWrongPassword
	}

	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrStorage, err)
	}
	if user == nil {
		return "", core.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", core.ErrWrongPassword
	}
	return models.RoleUser, nil
}
