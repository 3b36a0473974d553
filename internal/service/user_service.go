package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"user-hub/internal/domain"
	"user-hub/internal/repository"
)

// UserPatch carries the updatable fields of a user; nil means unchanged.
type UserPatch struct {
	Email    *string
	Password *string
	Name     *string
	Age      *int
}

// PageInfo summarizes a paginated selection.
type PageInfo struct {
	Count int64
	Pages int64
}

// Page is the envelope returned by Paginate.
type Page struct {
	Info    PageInfo
	Records []domain.User
}

// UserService exposes CRUD and listing operations over user records. Every
// returned user is sanitized.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, email, password string) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
	Paginate(ctx context.Context, params url.Values) (*Page, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("No item found")
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Create(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, validationErr("Check all required fields")
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

func (s *userService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("User not found")
		}
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		user.Age = patch.Age
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundErr("User not found")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, storageErr("Email already used", err)
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) (*domain.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("User not found")
		}
		return nil, err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("User not found")
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Paginate(ctx context.Context, params url.Values) (*Page, error) {
	query, err := parseListQuery(params)
	if err != nil {
		return nil, err
	}

	users, count, err := s.users.Select(ctx, query)
	if err != nil {
		return nil, err
	}

	pages := int64(1)
	if query.Limit > 0 {
		pages = (count + int64(query.Limit) - 1) / int64(query.Limit)
	}

	return &Page{
		Info:    PageInfo{Count: count, Pages: pages},
		Records: sanitizeUsers(users),
	}, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validationErr("Invalid ID")
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func sanitizeUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out
}
