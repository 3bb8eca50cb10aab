package users

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests and local runs.
// It is not intended for production use.

type MemoryRepo struct {
	mu     sync.Mutex
	byName map[string]User
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byName: make(map[string]User), nextID: 1}
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) Create(ctx context.Context, username string, passwordHash []byte) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return User{}, ErrUsernameTaken
	}
	u := User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.nextID++
	r.byName[username] = u
	return u, nil
}
