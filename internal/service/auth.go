package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

// Auth composes the session and ephemeral token managers with the user
// store, hasher, email dispatcher, and external identity exchanger into the
// account flows exposed to callers.
type Auth struct {
	users     model.UserStore
	sessions  *Session
	ephemeral *Ephemeral
	hasher    model.PasswordHasher
	email     model.EmailDispatcher
	identity  model.IdentityExchanger
	logger    *logger.Logger
}

func NewAuth(
	users model.UserStore,
	sessions *Session,
	ephemeral *Ephemeral,
	hasher model.PasswordHasher,
	email model.EmailDispatcher,
	identity model.IdentityExchanger,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:     users,
		sessions:  sessions,
		ephemeral: ephemeral,
		hasher:    hasher,
		email:     email,
		identity:  identity,
		logger:    logger,
	}
}

// Register creates or replaces a pending registration and requests delivery
// of its verification token. No User row is created here; that happens only
// when the token is consumed. Registration discloses that an email is taken
// (unlike forgot/resend) because the 409 is needed for a usable signup form.
func (a *Auth) Register(ctx context.Context, email, password string) error {
	existing, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if err == nil && existing.ID != uuid.Nil {
		a.logger.Warn("registration attempt with existing email", "email", email)
		return model.ErrEmailInUse
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}

	token, err := a.ephemeral.CreateRegistration(ctx, email, hash)
	if err != nil {
		return err
	}

	// Token row exists before the send; a delivery failure surfaces to the
	// caller but leaves a resendable token.
	if err := a.email.Send(ctx, model.EmailVerification, email, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// Login authenticates with email and password and opens a new session.
// A missing user, an account without a password, and a wrong password all
// return the identical ErrInvalidCredentials so callers cannot enumerate
// accounts.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, TokenPair, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("login attempt for unknown email", "email", email)
			return model.User{}, TokenPair{}, model.ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasPassword() {
		return model.User{}, TokenPair{}, model.ErrInvalidCredentials
	}
	if !a.hasher.Compare(password, *user.PasswordHash) {
		a.logger.Warn("failed login attempt", "email", email)
		return model.User{}, TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	a.logger.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// LoginWithGoogle exchanges an OAuth code, links the external identity to
// an existing user by email (marking it verified) or creates a fresh
// verified user, then opens a session.
func (a *Auth) LoginWithGoogle(ctx context.Context, code string) (model.User, TokenPair, error) {
	ident, err := a.identity.Exchange(ctx, code)
	if err != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	user, err := a.users.GetByExternalID(ctx, ident.ID)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		user, err = a.linkOrCreateExternal(ctx, ident)
		if err != nil {
			return model.User{}, TokenPair{}, err
		}
	default:
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by external id: %w", err)
	}

	pair, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	a.logger.Info("user logged in via google", "user_id", user.ID)
	return user, pair, nil
}

// Refresh delegates rotation to the session manager.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	return a.sessions.Rotate(ctx, refreshToken)
}

// Logout removes the single session behind the refresh token, best effort.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.sessions.Logout(ctx, refreshToken)
}

// VerifyEmail consumes a registration token and returns the created user.
func (a *Auth) VerifyEmail(ctx context.Context, token string) (model.User, error) {
	return a.ephemeral.ConsumeRegistration(ctx, token)
}

// ForgotPassword creates a reset token and requests delivery. It always
// reports success; a miss is logged and deliberately swallowed so callers
// cannot probe for accounts.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("password reset requested for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token, err := a.ephemeral.CreateReset(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := a.email.Send(ctx, model.EmailPasswordReset, email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token: new hash stored, all sessions
// revoked.
func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return a.ephemeral.ConsumeReset(ctx, token, hash)
}

// ResendVerification re-issues the pending registration token. Like
// ForgotPassword it always reports success regardless of whether a pending
// registration exists.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	token, err := a.ephemeral.RefreshRegistration(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Warn("verification resend requested for unknown or verified email", "email", email)
			return nil
		}
		return err
	}

	if err := a.email.Send(ctx, model.EmailVerification, email, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// ChangeEmail records a pending email change and mails its token to the
// requested address. The User row is not mutated here.
func (a *Auth) ChangeEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	existing, err := a.users.GetByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if err == nil && existing.ID != userID {
		return model.ErrEmailInUse
	}

	token, err := a.ephemeral.CreateEmailChange(ctx, userID, newEmail)
	if err != nil {
		return err
	}

	if err := a.email.Send(ctx, model.EmailChangeConfirm, newEmail, token); err != nil {
		return fmt.Errorf("failed to send email change confirmation: %w", err)
	}

	return nil
}

// VerifyEmailChange consumes an email-change token and returns the updated
// user.
func (a *Auth) VerifyEmailChange(ctx context.Context, token string) (model.User, error) {
	return a.ephemeral.ConsumeEmailChange(ctx, token)
}

// ChangePassword stores the new hash immediately and revokes every session
// so stolen tokens die with the old password.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := a.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	if err := a.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	a.logger.Info("password changed", "user_id", userID)
	return nil
}

// DeleteAccount removes the user and everything hanging off it. Password
// confirmation is required unless the account is OAuth-only. Token rows go
// first to satisfy referential integrity.
func (a *Auth) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() && !a.hasher.Compare(password, *user.PasswordHash) {
		return model.ErrInvalidCredentials
	}

	if err := a.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	if err := a.ephemeral.PurgeUserTokens(ctx, userID); err != nil {
		return err
	}
	if err := a.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	a.logger.Info("user deleted", "user_id", userID)
	return nil
}

// ListSessions returns the user's sessions, newest first.
func (a *Auth) ListSessions(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	return a.sessions.List(ctx, userID)
}

// RevokeAllSessions deletes every session of the user.
func (a *Auth) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return a.sessions.RevokeAll(ctx, userID)
}

// GetUser fetches a user profile by id.
func (a *Auth) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (a *Auth) linkOrCreateExternal(ctx context.Context, ident model.ExternalIdentity) (model.User, error) {
	existing, err := a.users.GetByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		if err := a.users.LinkExternalID(ctx, existing.ID, ident.ID); err != nil {
			return model.User{}, fmt.Errorf("failed to link external identity: %w", err)
		}
		a.logger.Info("google account linked to existing user", "user_id", existing.ID)
		return a.users.GetByID(ctx, existing.ID)
	case errors.Is(err, model.ErrNotFound):
	default:
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	externalID := ident.ID
	user, err := a.users.Create(ctx, model.User{
		ID:         uuid.New(),
		Email:      ident.Email,
		Verified:   true,
		ExternalID: &externalID,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("new user created via google", "user_id", user.ID)
	return user, nil
}
