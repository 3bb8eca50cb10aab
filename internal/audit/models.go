package audit

import "time"

// Event is an immutable, append-only record of an authentication outcome.
//
// Invariants:
// - Events are never updated or deleted.
// - Recording is best-effort; login and refresh must not block on audit failures.
// - Events may differentiate failure causes (unknown user vs wrong password
//   vs replayed token) that the HTTP responses deliberately collapse.

type Event struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	Username string    `json:"username,omitempty"`

	// IPAddress captures the original client IP when available.
	IPAddress string `json:"ip_address,omitempty"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeLoginOK       EventType = "login_ok"
	EventTypeLoginFailed   EventType = "login_failed"
	EventTypeRefreshOK     EventType = "refresh_ok"
	EventTypeRefreshDenied EventType = "refresh_denied"
	EventTypeRegistered    EventType = "registered"
)
