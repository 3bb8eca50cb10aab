// Package taskstore implements the internal task CRUD service: a tasks
// table behind a plain HTTP surface. It performs no authentication; the
// gateway is the only intended caller and network policy enforces that.
package taskstore

import (
	"context"
	"errors"
)

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      *int64 `json:"user_id"`
}

var ErrNotFound = errors.New("taskstore: not found")

// Repository is the persistence contract. Every method is a single
// parameterized statement; there is no cross-row logic to transact over.
type Repository interface {
	List(ctx context.Context, status string) ([]Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id int64) (Task, error)
}
