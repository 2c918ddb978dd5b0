package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordResetStore persists password-reset tokens. Replace deletes every
// prior token for the user before inserting, keeping at most one live token
// per user. Consumed tokens are marked used rather than deleted; the sweep
// removes them once expired.
type PasswordResetStore interface {
	Replace(ctx context.Context, token PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetToken is a single-use reset credential.
type PasswordResetToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
