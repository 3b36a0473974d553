package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"user-hub/internal/domain"
	"user-hub/internal/repository"
)

// AuthService handles account registration and credential verification.
// Token issuance lives in the HTTP layer; both methods return sanitized
// users.
type AuthService interface {
	Register(ctx context.Context, email, password, confirmPassword string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

type authService struct {
	users    repository.UserRepository
	validate *validator.Validate
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{
		users:    users,
		validate: validator.New(),
	}
}

func (s *authService) Register(ctx context.Context, email, password, confirmPassword string) (*domain.User, error) {
	if email == "" || password == "" || confirmPassword == "" {
		return nil, validationErr("Please fill all the required fields")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, validationErr("Email already used")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if err := s.validate.Var(email, "email"); err != nil {
		return nil, validationErr("Email is invalid")
	}
	if !strongPassword(password) {
		return nil, validationErr("Password is not strong enough")
	}
	if password != confirmPassword {
		return nil, validationErr("Passwords mismatch")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, storageErr("Email already used", err)
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, validationErr("Please fill all the required fields")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, authErr("Incorrect email address")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, authErr("Incorrect password")
	}

	return sanitizeUser(user), nil
}

// strongPassword enforces minimum length 8 with at least one lowercase,
// one uppercase and one digit.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
