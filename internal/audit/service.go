package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for auth events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication outcomes for internal ops.
//
// IMPORTANT:
// - These records are internal-only; never expose them through the API.
// - Callers should treat recording as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record logs an authentication outcome, swallowing repository errors.
// Audit must never fail an auth flow.
func (s *Service) Record(ctx context.Context, typ EventType, username, ip, message string) {
	if s == nil {
		return
	}
	_ = s.Append(ctx, Event{Type: typ, Username: username, IPAddress: ip, Message: message})
}
