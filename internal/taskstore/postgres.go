package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) List(ctx context.Context, status string) ([]Task, error) {
	q := `
SELECT id, title, description, status, user_id
FROM tasks
`
	args := []any{}
	if status != "" {
		q += "WHERE status = $1\n"
		args = append(args, status)
	}
	q += "ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("taskstore: list: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("taskstore: list scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskstore: list rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) Create(ctx context.Context, t Task) (Task, error) {
	const q = `
INSERT INTO tasks (title, description, status, user_id)
VALUES ($1, $2, $3, $4)
RETURNING id, title, description, status, user_id
`
	row := r.db.QueryRowContext(ctx, q, t.Title, t.Description, t.Status, t.UserID)
	created, err := scanTask(row)
	if err != nil {
		return Task{}, fmt.Errorf("taskstore: create: %w", err)
	}
	return created, nil
}

func (r *PostgresRepo) Update(ctx context.Context, t Task) (Task, error) {
	const q = `
UPDATE tasks
SET title = $1, description = $2, status = $3
WHERE id = $4
RETURNING id, title, description, status, user_id
`
	row := r.db.QueryRowContext(ctx, q, t.Title, t.Description, t.Status, t.ID)
	updated, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("taskstore: update: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (Task, error) {
	const q = `
DELETE FROM tasks
WHERE id = $1
RETURNING id, title, description, status, user_id
`
	row := r.db.QueryRowContext(ctx, q, id)
	deleted, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("taskstore: delete: %w", err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var desc sql.NullString
	var userID sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Status, &userID); err != nil {
		return Task{}, err
	}
	t.Description = desc.String
	if userID.Valid {
		t.UserID = &userID.Int64
	}
	return t, nil
}

// EnsureSchema creates the tasks table if missing. Deleting a user
// cascades to their tasks.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    status VARCHAR(255) NOT NULL DEFAULT 'new',
    user_id INTEGER REFERENCES users(id) ON DELETE CASCADE
)
`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("taskstore: ensure schema: %w", err)
	}
	return nil
}
