package auth

import "errors"

// Authentication failure taxonomy. Every branch of the access and refresh
// protocols terminates in exactly one of these; the HTTP layer collapses
// them into fixed 401 messages so clients cannot distinguish unknown-user
// from wrong-password or replayed from garbled.
var (
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrWrongTokenType     = errors.New("auth: wrong token type")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenReplayed      = errors.New("auth: refresh token replayed or superseded")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// IsAuthFailure reports whether err belongs to the authentication taxonomy.
// Anything else (store unavailability, I/O) must surface as a 5xx, never
// as an anonymous-but-allowed request.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrWrongTokenType) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenReplayed) ||
		errors.Is(err, ErrUserNotFound)
}
