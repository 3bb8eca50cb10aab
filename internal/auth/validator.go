package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"taskgate/internal/session"
	"taskgate/internal/users"
)

// SessionStore is the read side of the session record. The refresh
// protocol never writes: two concurrent refreshes both succeed and each
// mints its own access token.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (string, error)
}

// RefreshValidator authorizes refresh requests: it checks the presented
// cookie token against the single stored refresh token for the user,
// detecting expiry and replay of tokens superseded by a newer login.
type RefreshValidator struct {
	tokens   *Manager
	users    UserStore
	sessions SessionStore
	clock    func() time.Time
}

func NewRefreshValidator(tokens *Manager, userStore UserStore, sessions SessionStore) *RefreshValidator {
	return &RefreshValidator{
		tokens:   tokens,
		users:    userStore,
		sessions: sessions,
		clock:    time.Now,
	}
}

// Validate runs the refresh protocol and returns the user a fresh access
// token may be minted for. Session state is left untouched; refresh
// tokens are fixed-lifetime and not rotated.
func (v *RefreshValidator) Validate(ctx context.Context, presented string) (users.User, error) {
	if presented == "" {
		return users.User{}, ErrInvalidToken
	}

	claims, err := v.tokens.Decode(presented)
	if err != nil {
		return users.User{}, err
	}
	// The stored-token equality check below would catch a mis-slotted
	// access token anyway, but reject it outright.
	if claims.TokenType != TokenTypeRefresh {
		return users.User{}, ErrWrongTokenType
	}

	user, err := v.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return users.User{}, ErrUserNotFound
		}
		return users.User{}, fmt.Errorf("refresh: user lookup: %w", err)
	}

	stored, err := v.sessions.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return users.User{}, ErrTokenExpired
		}
		return users.User{}, fmt.Errorf("refresh: session lookup: %w", err)
	}

	// The stored token's own exp governs validity, independent of the
	// store TTL.
	storedClaims, err := v.tokens.Decode(stored)
	if err != nil {
		return users.User{}, err
	}
	if storedClaims.ExpiredAt(v.clock()) {
		return users.User{}, ErrTokenExpired
	}

	// Byte-exact match against the stored token. A mismatch means the
	// presented token was superseded by a newer login.
	if subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) != 1 {
		return users.User{}, ErrTokenReplayed
	}

	return user, nil
}
