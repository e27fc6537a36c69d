package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]UserSummary, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PostgresUserRepository implements UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new account and fills in the generated ID.
// A duplicate username maps to ErrUsernameExists.
func (r *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password, is_active, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its unique ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getUser(ctx,
		`SELECT id, username, email, password, is_active, is_admin, created_at
		 FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves an account by username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx,
		`SELECT id, username, email, password, is_active, is_admin, created_at
		 FROM users WHERE username = $1`, username)
}

// List returns all accounts ordered by ID. The password hash column is
// not selected; it never appears in listing responses.
func (r *PostgresUserRepository) List(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, is_active, is_admin, created_at
		 FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []UserSummary{}
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsActive, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// SetActive flips an account's active flag.
func (r *PostgresUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("updating user active flag: %w", err)
	}
	return checkAffected(result, ErrUserNotFound)
}

// UpdatePassword changes an account's password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return checkAffected(result, ErrUserNotFound)
}

// getUser executes a single-row query and scans the account.
func (r *PostgresUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// checkAffected maps a zero affected-row count to notFound.
func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
