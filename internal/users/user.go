// Package users is the user store: immutable numeric ids, unique
// case-sensitive usernames, opaque password-hash bytes. Uniqueness is
// enforced by the store, not by callers.
package users

import (
	"context"
	"errors"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
}

var (
	ErrNotFound      = errors.New("users: not found")
	ErrUsernameTaken = errors.New("users: username already exists")
)

// Repository is the persistence contract for user records.
// The auth core only ever reads; registration is the sole writer.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, username string, passwordHash []byte) (User, error)
}
