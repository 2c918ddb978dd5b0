package service

import (
	"context"
	"time"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

// Sweeper removes expired rows of every token kind on a fixed interval,
// independent of request traffic. Safe to run concurrently with live
// traffic: it only deletes rows that are already logically invalid.
type Sweeper struct {
	refreshTokens model.RefreshTokenStore
	registrations model.PendingRegistrationStore
	resets        model.PasswordResetStore
	emailChanges  model.PendingEmailChangeStore
	interval      time.Duration
	logger        *logger.Logger
}

func NewSweeper(
	refreshTokens model.RefreshTokenStore,
	registrations model.PendingRegistrationStore,
	resets model.PasswordResetStore,
	emailChanges model.PendingEmailChangeStore,
	interval time.Duration,
	logger *logger.Logger,
) *Sweeper {
	return &Sweeper{
		refreshTokens: refreshTokens,
		registrations: registrations,
		resets:        resets,
		emailChanges:  emailChanges,
		interval:      interval,
		logger:        logger,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes every expired row of every kind. Failures are logged, not
// propagated; the next tick retries.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()

	refresh, err := s.refreshTokens.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep refresh tokens", "error", err)
	}
	registrations, err := s.registrations.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep pending registrations", "error", err)
	}
	resets, err := s.resets.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep reset tokens", "error", err)
	}
	changes, err := s.emailChanges.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("failed to sweep pending email changes", "error", err)
	}

	s.logger.Info("sweep completed",
		"refresh_tokens", refresh,
		"pending_registrations", registrations,
		"reset_tokens", resets,
		"pending_email_changes", changes)
}
