package auth

import (
	"context"
	"errors"

	"taskgate/internal/users"
)

type ctxKey int

const ctxUser ctxKey = iota

// WithUser stores the authenticated identity in the request context.
func WithUser(ctx context.Context, u users.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// CurrentUser returns the identity placed in context by the access-token
// middleware.
func CurrentUser(ctx context.Context) (users.User, error) {
	if u, ok := ctx.Value(ctxUser).(users.User); ok && u.ID != 0 {
		return u, nil
	}
	return users.User{}, errors.New("no authenticated user in context")
}
