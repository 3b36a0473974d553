package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"user-hub/internal/domain"
	"user-hub/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	age INTEGER NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// columns maps external field names onto table columns for filtering and
// sorting. Anything absent here never reaches a SQL statement.
var columns = map[string]string{
	"email":      "email",
	"name":       "name",
	"age":        "age",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, name, age, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		ageValue(user.Age),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, name, age, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, name, age, created_at, updated_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, email, password_hash, name, age, created_at, updated_at
FROM users
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Select executes a filtered, sorted, paginated selection plus a count over
// the same predicate.
func (r *UserRepository) Select(ctx context.Context, q repository.ListQuery) ([]domain.User, int64, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	countQuery := "SELECT COUNT(*) FROM users" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderBy, err := buildOrderBy(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT id, email, password_hash, name, age, created_at, updated_at FROM users" + where + orderBy
	if q.HasLimit {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	} else if q.HasPage {
		query += " LIMIT -1"
	}
	if q.HasPage {
		offset := (q.Page - 1) * q.Limit
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET email = ?, password_hash = ?, name = ?, age = ?, updated_at = ?
WHERE id = ?`,
		user.Email,
		user.PasswordHash,
		user.Name,
		ageValue(user.Age),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func buildWhere(q repository.ListQuery) (string, []any, error) {
	var clauses []string
	var args []any

	for _, f := range q.Filters {
		col, ok := columns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q", f.Field)
		}

		switch f.Op {
		case repository.OpEq, repository.OpGt, repository.OpGte, repository.OpLt, repository.OpLte:
			if len(f.Values) != 1 {
				return "", nil, fmt.Errorf("filter on %q: exactly one value required", f.Field)
			}
			clauses = append(clauses, fmt.Sprintf("%s %s ?", col, sqlOperators[f.Op]))
			args = append(args, bindValue(f.Values[0]))
		case repository.OpIn:
			if len(f.Values) == 0 {
				return "", nil, fmt.Errorf("filter on %q: at least one value required", f.Field)
			}
			placeholders := make([]string, len(f.Values))
			for i, v := range f.Values {
				placeholders[i] = "?"
				args = append(args, bindValue(v))
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ",")))
		default:
			return "", nil, fmt.Errorf("unknown filter operator %q", f.Op)
		}
	}

	if q.Search != "" {
		term := "%" + strings.ToLower(q.Search) + "%"
		clauses = append(clauses, "(LOWER(email) LIKE ? OR LOWER(password_hash) LIKE ?)")
		args = append(args, term, term)
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

var sqlOperators = map[repository.FilterOp]string{
	repository.OpEq:  "=",
	repository.OpGt:  ">",
	repository.OpGte: ">=",
	repository.OpLt:  "<",
	repository.OpLte: "<=",
}

func buildOrderBy(sort []repository.SortField) (string, error) {
	if len(sort) == 0 {
		return " ORDER BY email ASC", nil
	}

	parts := make([]string, len(sort))
	for i, s := range sort {
		col, ok := columns[s.Field]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q", s.Field)
		}
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		parts[i] = col + " " + direction
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// bindValue converts numeric-looking filter values so comparisons against
// INTEGER columns behave numerically rather than lexically.
func bindValue(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func ageValue(age *int) any {
	if age == nil {
		return nil
	}
	return *age
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user domain.User
		age  sql.NullInt64
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&age,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	return &user, nil
}
