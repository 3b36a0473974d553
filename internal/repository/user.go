package repository

import (
	"context"
	"errors"

	"user-hub/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write violates the unique email constraint.
	ErrDuplicateEmail = errors.New("email already used")
)

// listFields is the set of fields list queries may filter or sort by.
// Implementations map these onto their own column names.
var listFields = map[string]struct{}{
	"email":      {},
	"name":       {},
	"age":        {},
	"created_at": {},
	"updated_at": {},
}

// ListableField reports whether list queries may filter or sort by field.
func ListableField(field string) bool {
	_, ok := listFields[field]
	return ok
}

// FilterOp enumerates the comparison operators supported by list queries.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
	OpIn  FilterOp = "in"
)

// Filter constrains a single field. Values holds one element except for OpIn.
type Filter struct {
	Field  string
	Op     FilterOp
	Values []string
}

// SortField names a field to order by, optionally descending.
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery describes a filtered, sorted, paginated selection over users.
// Limit applies only when HasLimit is set; Page only when HasPage is set.
type ListQuery struct {
	Filters  []Filter
	Search   string
	Sort     []SortField
	Limit    int
	Page     int
	HasLimit bool
	HasPage  bool
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Select(ctx context.Context, q ListQuery) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
