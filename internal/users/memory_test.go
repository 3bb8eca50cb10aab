package users

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepo_CreateAndGet(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	u, err := r.Create(ctx, "alice", []byte("hash"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := r.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != u.ID || string(got.PasswordHash) != "hash" {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestMemoryRepo_DuplicateUsername(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "alice", []byte("h1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(ctx, "alice", []byte("h2")); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// No mutation on conflict.
	got, err := r.GetByUsername(ctx, "alice")
	if err != nil || string(got.PasswordHash) != "h1" {
		t.Fatalf("conflict must not overwrite, got %+v (%v)", got, err)
	}
}

func TestMemoryRepo_UsernamesAreCaseSensitive(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "alice", []byte("h")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.GetByUsername(ctx, "Alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different case, got %v", err)
	}
}
