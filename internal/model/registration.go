package model

import (
	"context"
	"time"
)

// PendingRegistrationStore persists registrations awaiting email
// verification. Replace removes any prior pending row for the same email
// before inserting, so re-registering always yields a fresh token.
type PendingRegistrationStore interface {
	Replace(ctx context.Context, pending PendingRegistration) error
	GetByToken(ctx context.Context, token string) (PendingRegistration, error)
	GetByEmail(ctx context.Context, email string) (PendingRegistration, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PendingRegistration holds registration data until the emailed token is
// consumed. No User row exists before consumption.
type PendingRegistration struct {
	Email        string
	PasswordHash string
	Token        string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
