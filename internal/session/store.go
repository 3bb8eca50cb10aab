// Package session is a thin adapter over Redis holding the single
// currently-valid refresh token per user. Key: user id in string form.
// Value: the most recently issued refresh token. TTL: the refresh-token
// lifetime, so entries expire on their own; there is no delete path.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound means no live refresh token exists for the user: either
// never set, or the TTL elapsed.
var ErrNotFound = errors.New("session: not found")

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Put records the user's refresh token with expiry. SET is atomic and
// overwrites any prior entry; last write wins under concurrent logins,
// which is exactly the single-session invariant.
func (s *Store) Put(ctx context.Context, userID int64, refreshToken string, ttl time.Duration) error {
	if refreshToken == "" {
		return errors.New("session: refresh token is required")
	}
	if ttl <= 0 {
		return errors.New("session: ttl must be positive")
	}
	if err := s.rdb.Set(ctx, key(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("session: put: %w", err)
	}
	return nil
}

// Get returns the stored refresh token, or ErrNotFound once the TTL has
// elapsed or if nothing was ever stored.
func (s *Store) Get(ctx context.Context, userID int64) (string, error) {
	v, err := s.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session: get: %w", err)
	}
	return v, nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
