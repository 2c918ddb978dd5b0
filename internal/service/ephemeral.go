package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

// Lifetimes of the single-use token kinds.
const (
	registrationTTL = 24 * time.Hour
	resetTTL        = time.Hour
	emailChangeTTL  = 24 * time.Hour
)

// Ephemeral manages the single-use, time-boxed tokens mediating
// registration, email verification, password reset, and email change. Each
// token is 256 bits from crypto/rand bound to a payload row with an expiry.
type Ephemeral struct {
	users         model.UserStore
	registrations model.PendingRegistrationStore
	resets        model.PasswordResetStore
	emailChanges  model.PendingEmailChangeStore
	sessions      *Session
	logger        *logger.Logger
}

func NewEphemeral(
	users model.UserStore,
	registrations model.PendingRegistrationStore,
	resets model.PasswordResetStore,
	emailChanges model.PendingEmailChangeStore,
	sessions *Session,
	logger *logger.Logger,
) *Ephemeral {
	return &Ephemeral{
		users:         users,
		registrations: registrations,
		resets:        resets,
		emailChanges:  emailChanges,
		sessions:      sessions,
		logger:        logger,
	}
}

// CreateRegistration stores a pending registration and returns its token.
// A prior pending row for the same email is replaced, so re-registering
// before verification always invalidates the earlier token.
func (e *Ephemeral) CreateRegistration(ctx context.Context, email, passwordHash string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	pending := model.PendingRegistration{
		Email:        email,
		PasswordHash: passwordHash,
		Token:        token,
		ExpiresAt:    now.Add(registrationTTL),
		CreatedAt:    now,
	}
	if err := e.registrations.Replace(ctx, pending); err != nil {
		return "", fmt.Errorf("failed to create pending registration: %w", err)
	}

	e.logger.Info("pending registration created", "email", email)
	return token, nil
}

// RefreshRegistration issues a fresh token for an existing pending
// registration, keeping its password hash. Returns ErrNotFound when no
// pending row exists for the email.
func (e *Ephemeral) RefreshRegistration(ctx context.Context, email string) (string, error) {
	pending, err := e.registrations.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get pending registration: %w", err)
	}

	return e.CreateRegistration(ctx, pending.Email, pending.PasswordHash)
}

// ConsumeRegistration consumes a verification token: it creates the durable
// User (the only way a password-registered User ever comes into existence)
// and deletes the pending row.
func (e *Ephemeral) ConsumeRegistration(ctx context.Context, token string) (model.User, error) {
	pending, err := e.registrations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrInvalidOrExpiredToken
		}
		return model.User{}, fmt.Errorf("failed to get pending registration: %w", err)
	}

	if pending.ExpiresAt.Before(time.Now()) {
		if err := e.registrations.DeleteByToken(ctx, token); err != nil {
			return model.User{}, fmt.Errorf("failed to delete expired registration: %w", err)
		}
		return model.User{}, model.ErrInvalidOrExpiredToken
	}

	hash := pending.PasswordHash
	now := time.Now()
	user, err := e.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        pending.Email,
		PasswordHash: &hash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := e.registrations.DeleteByToken(ctx, token); err != nil {
		return model.User{}, fmt.Errorf("failed to delete pending registration: %w", err)
	}

	e.logger.Info("email verified, user created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// CreateReset stores a password-reset token for the user, replacing any
// prior one so at most one live token exists per user.
func (e *Ephemeral) CreateReset(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	reset := model.PasswordResetToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(resetTTL),
		CreatedAt: now,
	}
	if err := e.resets.Replace(ctx, reset); err != nil {
		return "", fmt.Errorf("failed to create reset token: %w", err)
	}

	e.logger.Info("password reset token created", "user_id", userID)
	return token, nil
}

// ConsumeReset consumes a reset token: it stores the new password hash and
// unconditionally revokes every session of the user, as one combined
// effect. The row is marked used rather than deleted, preserving an audit
// trail until the sweep removes it.
func (e *Ephemeral) ConsumeReset(ctx context.Context, token, newHash string) error {
	reset, err := e.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if reset.Used {
		return model.ErrAlreadyUsed
	}
	if reset.ExpiresAt.Before(time.Now()) {
		return model.ErrInvalidOrExpiredToken
	}

	if err := e.users.UpdatePasswordHash(ctx, reset.UserID, newHash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if err := e.resets.MarkUsed(ctx, token); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}

	// Non-optional: whoever triggered the reset may be an attacker holding
	// live sessions.
	if err := e.sessions.RevokeAll(ctx, reset.UserID); err != nil {
		return err
	}

	e.logger.Info("password reset completed", "user_id", reset.UserID)
	return nil
}

// CreateEmailChange stores a pending email change and returns its token.
// The User row is untouched until consumption.
func (e *Ephemeral) CreateEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	change := model.PendingEmailChange{
		Token:     token,
		UserID:    userID,
		NewEmail:  newEmail,
		ExpiresAt: now.Add(emailChangeTTL),
		CreatedAt: now,
	}
	if err := e.emailChanges.Replace(ctx, change); err != nil {
		return "", fmt.Errorf("failed to create pending email change: %w", err)
	}

	e.logger.Info("email change requested", "user_id", userID)
	return token, nil
}

// ConsumeEmailChange consumes an email-change token. Uniqueness of the
// requested address is re-checked here, not only at request time, closing
// the race between two overlapping change requests targeting the same
// address. Possession of the token proves control of the new address, so
// the user comes out verified.
func (e *Ephemeral) ConsumeEmailChange(ctx context.Context, token string) (model.User, error) {
	change, err := e.emailChanges.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrInvalidOrExpiredToken
		}
		return model.User{}, fmt.Errorf("failed to get pending email change: %w", err)
	}

	if change.ExpiresAt.Before(time.Now()) {
		if err := e.emailChanges.DeleteByToken(ctx, token); err != nil {
			return model.User{}, fmt.Errorf("failed to delete expired email change: %w", err)
		}
		return model.User{}, model.ErrInvalidOrExpiredToken
	}

	taken, err := e.users.GetByEmail(ctx, change.NewEmail)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if err == nil && taken.ID != change.UserID {
		return model.User{}, model.ErrConflict
	}

	if err := e.users.UpdateEmail(ctx, change.UserID, change.NewEmail, true); err != nil {
		return model.User{}, fmt.Errorf("failed to update email: %w", err)
	}
	if err := e.emailChanges.DeleteByToken(ctx, token); err != nil {
		return model.User{}, fmt.Errorf("failed to delete pending email change: %w", err)
	}

	user, err := e.users.GetByID(ctx, change.UserID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	e.logger.Info("email change completed", "user_id", user.ID)
	return user, nil
}

// PurgeUserTokens deletes every reset token and pending email change owned
// by the user. Called before the User row itself is deleted so referential
// integrity holds.
func (e *Ephemeral) PurgeUserTokens(ctx context.Context, userID uuid.UUID) error {
	if err := e.resets.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	if err := e.emailChanges.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete pending email changes: %w", err)
	}
	return nil
}

// newToken returns 256 bits of randomness, hex-encoded.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
