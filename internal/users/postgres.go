package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresRepo implements Repository over database/sql (pgx stdlib driver).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const q = `
SELECT id, username, password_hash
FROM users
WHERE username = $1
`
	var u User
	if err := r.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("users: get by username: %w", err)
	}
	return u, nil
}

// Create inserts a new user. The unique constraint on username does the
// duplicate detection: ON CONFLICT DO NOTHING yields no row, which maps
// to ErrUsernameTaken with no row mutation.
func (r *PostgresRepo) Create(ctx context.Context, username string, passwordHash []byte) (User, error) {
	const q = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
ON CONFLICT (username) DO NOTHING
RETURNING id
`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, username, passwordHash).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	return User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// EnsureSchema creates the users table if missing. Schema migration
// tooling is out of scope; the table shape is fixed.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(255) UNIQUE NOT NULL,
    password_hash BYTEA NOT NULL
)
`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("users: ensure schema: %w", err)
	}
	return nil
}
