package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

// TokenPair carries the tokens issued by a login or rotation together with
// the session family they belong to.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Family       uuid.UUID
}

// Session issues, rotates, and revokes refresh tokens and detects reuse.
// It composes the TokenSigner and RefreshTokenStore.
type Session struct {
	signer     model.TokenSigner
	store      model.RefreshTokenStore
	logger     *logger.Logger
	refreshTTL time.Duration
}

// NewSession creates a session manager. refreshTTL must match the lifetime
// the signer embeds in refresh tokens; the stored expiry exists for
// persistence (listing and sweep), cryptographic validity is checked
// against the JWT claims at parse time.
func NewSession(signer model.TokenSigner, store model.RefreshTokenStore, logger *logger.Logger, refreshTTL time.Duration) *Session {
	return &Session{signer: signer, store: store, logger: logger, refreshTTL: refreshTTL}
}

// Create mints a new session family and persists its first refresh token.
func (s *Session) Create(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	family := uuid.New()
	pair, err := s.issue(ctx, userID, family)
	if err != nil {
		return TokenPair{}, err
	}

	s.logger.Info("session created", "user_id", userID, "family", family)
	return pair, nil
}

// Rotate exchanges a still-valid refresh token for a fresh pair in the same
// family. Presenting a token that was already rotated is treated as reuse:
// every session of the owning user is revoked and ErrSessionInvalidated is
// returned. The race loser of two concurrent rotations gets the same
// treatment, never a silent retry.
func (s *Session) Rotate(ctx context.Context, presented string) (TokenPair, error) {
	userID, err := s.signer.VerifyRefresh(presented)
	if err != nil {
		return TokenPair{}, err
	}

	// Atomic delete-returning: the row's existence is the concurrency
	// gate. Exactly one of N racing rotations observes it.
	consumed, err := s.store.ConsumeByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("refresh token reuse detected, revoking all sessions", "user_id", userID)
			if _, delErr := s.store.DeleteAllByUser(ctx, userID); delErr != nil {
				return TokenPair{}, fmt.Errorf("failed to revoke sessions after reuse: %w", delErr)
			}
			return TokenPair{}, model.ErrSessionInvalidated
		}
		return TokenPair{}, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	// Row already removed above; a stale stored expiry means the token is
	// simply dead, not stolen.
	if consumed.ExpiresAt.Before(time.Now()) {
		return TokenPair{}, model.ErrInvalidOrExpiredToken
	}

	pair, err := s.issue(ctx, consumed.UserID, consumed.Family)
	if err != nil {
		return TokenPair{}, err
	}

	s.logger.Info("session rotated", "user_id", consumed.UserID, "family", consumed.Family)
	return pair, nil
}

// RevokeAll deletes every refresh-token row for the user.
func (s *Session) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	n, err := s.store.DeleteAllByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.logger.Info("all sessions revoked", "user_id", userID, "count", n)
	return nil
}

// Logout removes the single session behind the presented refresh token.
// Best effort: an absent row is not an error.
func (s *Session) Logout(ctx context.Context, presented string) error {
	if err := s.store.DeleteByToken(ctx, presented); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// List returns the user's sessions newest-first. Raw token values are never
// exposed.
func (s *Session) List(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	sessions, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Session) issue(ctx context.Context, userID, family uuid.UUID) (TokenPair, error) {
	access, err := s.signer.SignAccess(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.signer.SignRefresh(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		Token:     refresh,
		Family:    family,
		UserID:    userID,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, Family: family}, nil
}
