package taskstore

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu     sync.Mutex
	tasks  map[int64]Task
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: make(map[int64]Task), nextID: 1}
}

func (r *MemoryRepo) List(ctx context.Context, status string) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Task{}
	for id := int64(1); id < r.nextID; id++ {
		t, ok := r.tasks[id]
		if !ok {
			continue
		}
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[t.ID]
	if !ok {
		return Task{}, ErrNotFound
	}
	existing.Title = t.Title
	existing.Description = t.Description
	existing.Status = t.Status
	r.tasks[t.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	delete(r.tasks, id)
	return t, nil
}
