package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	cost     int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
	}
}

// Register validates the registration form and creates a new user.
func (s *AuthService) Register(ctx context.Context, values validation.Values) (*models.User, error) {
	form, err := validation.Register(values)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, form.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, backendError("check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        form.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, backendError("create user", err)
	}

	return user, nil
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, values validation.Values) (*models.User, error) {
	form, err := validation.Login(values)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, backendError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, backendError("find user", err)
	}

	return user, nil
}
