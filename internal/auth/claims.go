package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the only claim shape this service signs or accepts.
// `sub` carries the user id in string form; `type` discriminates access
// from refresh tokens. Unknown token types are rejected at decode time
// rather than defaulted.
type Claims struct {
	jwt.RegisteredClaims

	Username  string    `json:"username"`
	TokenType TokenType `json:"type"`
}

// UserID parses the subject claim back into the numeric user id.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subject is not a user id: %w", err)
	}
	return id, nil
}

// ExpiredAt reports whether the token's expiry has elapsed at the given
// instant. Decode leaves expiry to callers, so both validation protocols
// call this explicitly.
func (c Claims) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt == nil || !c.ExpiresAt.Time.After(now)
}

// validateRequired enforces the required-field contract: a well-signed
// token missing any of type/sub/username/iat/exp is still invalid.
func (c Claims) validateRequired() error {
	switch c.TokenType {
	case TokenTypeAccess, TokenTypeRefresh:
	default:
		return fmt.Errorf("unknown token type %q", c.TokenType)
	}
	if c.Subject == "" {
		return fmt.Errorf("sub claim missing")
	}
	if c.Username == "" {
		return fmt.Errorf("username claim missing")
	}
	if c.IssuedAt == nil {
		return fmt.Errorf("iat claim missing")
	}
	if c.ExpiresAt == nil {
		return fmt.Errorf("exp claim missing")
	}
	return nil
}
