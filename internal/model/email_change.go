package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PendingEmailChangeStore persists requested email changes until the token
// sent to the new address is consumed. Replace keeps one outstanding
// request per user.
type PendingEmailChangeStore interface {
	Replace(ctx context.Context, change PendingEmailChange) error
	GetByToken(ctx context.Context, token string) (PendingEmailChange, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PendingEmailChange records a requested email swap. The User row is not
// touched until consumption.
type PendingEmailChange struct {
	Token     string
	UserID    uuid.UUID
	NewEmail  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
