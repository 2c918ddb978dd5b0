package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string, verified bool) error
	LinkExternalID(ctx context.Context, id uuid.UUID, externalID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a durable account. PasswordHash is nil for accounts
// created through an external identity provider that never set a password.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	Verified     bool
	ExternalID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
