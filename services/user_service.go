package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

// UserService interface defines account business logic
type UserService interface {
	Login(ctx context.Context, form *models.LoginForm) (*models.User, error)
	LoginSSO(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error)
}

// userService implements UserService interface
type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Login verifies credentials against the local password hash and stamps the
// last login time. All failure modes collapse into ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, form *models.LoginForm) (*models.User, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(form.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.stampLogin(ctx, user)
}

// LoginSSO resolves an identity-provider email to a local account. Accounts
// are provisioned locally first; an unknown SSO identity cannot log in.
func (s *userService) LoginSSO(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.stampLogin(ctx, user)
}

func (s *userService) stampLogin(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// GetByID retrieves a user account by ID
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetAll retrieves all user accounts
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// CreateUser creates a new local account with a bcrypt password hash.
// Account management is an admin concern; user rows are not audit-tracked.
func (s *userService) CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, &ValidationError{Problems: []string{"Email is already in use"}}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(form.FullName),
		Role:         form.Role,
		Site:         form.Site,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
