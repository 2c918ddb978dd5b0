package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists refresh-token rows. ConsumeByToken is the
// rotation gate: it must remove the row and report what it removed in a
// single atomic step, returning ErrNotFound when no row matched, so that of
// two racing rotations exactly one observes the row.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	ConsumeByToken(ctx context.Context, token string) (RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshToken is one generation of a session. Family links every
// generation descended from a single login.
type RefreshToken struct {
	ID        uuid.UUID
	Token     string
	Family    uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Session is the caller-visible view of a refresh-token row. It carries no
// token value.
type Session struct {
	ID        uuid.UUID
	Family    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}
