package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// UserService defines account management and credential verification.
type UserService interface {
	// Verify checks a username/password pair and returns the account on
	// success, ErrInvalidCredentials otherwise.
	Verify(ctx context.Context, username, password string) (*model.User, error)

	// List returns every account.
	List(ctx context.Context) ([]model.User, error)

	// Create registers a new account. An empty role defaults to "user".
	Create(ctx context.Context, username, password, role string) (*model.User, error)

	// Update rewrites an account's password and/or role. Nil pointers keep the
	// stored value.
	Update(ctx context.Context, username string, password, role *string) (*model.User, error)

	// Delete removes an account and its entire application collection.
	Delete(ctx context.Context, username string) error

	// EnsureDefaultAdmin seeds the bootstrap admin account when no account
	// with that username exists yet.
	EnsureDefaultAdmin(ctx context.Context) error
}

type userService struct {
	users repository.UserRepository
	apps  repository.ApplicationRepository
	now   func() time.Time
}

// NewUserService constructs a UserService. The application repository is used
// to cascade collection deletes when an account is removed.
func NewUserService(users repository.UserRepository, apps repository.ApplicationRepository) UserService {
	return &userService{users: users, apps: apps, now: time.Now}
}

func (s *userService) Verify(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Create(ctx context.Context, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if role == "" {
		role = model.RoleUser
	}

	now := s.now().UTC()
	u := &model.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return stored, nil
}

func (s *userService) Update(ctx context.Context, username string, password, role *string) (*model.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if password != nil {
		if *password == "" {
			return nil, ErrPasswordRequired
		}
		existing.PasswordHash = auth.HashPassword(*password)
	}
	if role != nil && *role != "" {
		existing.Role = *role
	}
	existing.UpdatedAt = s.now().UTC()

	stored, err := s.users.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return stored, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.apps.DeleteCollection(ctx, username); err != nil {
		return fmt.Errorf("delete application collection: %w", err)
	}
	return nil
}

func (s *userService) EnsureDefaultAdmin(ctx context.Context) error {
	_, err := s.users.FindByUsername(ctx, defaultAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	_, err = s.Create(ctx, defaultAdminUsername, defaultAdminPassword, model.RoleAdmin)
	if err != nil && !errors.Is(err, ErrUserExists) {
		return fmt.Errorf("seed default admin: %w", err)
	}
	return nil
}
