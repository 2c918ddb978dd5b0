// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ddanilov/authcore/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *UserStore) UpdateEmail(ctx context.Context, id uuid.UUID, email string, verified bool) error {
	args := m.Called(ctx, id, email, verified)
	return args.Error(0)
}

func (m *UserStore) LinkExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	args := m.Called(ctx, id, externalID)
	return args.Error(0)
}

func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) ConsumeByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RefreshTokenStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Session), args.Error(1)
}

func (m *RefreshTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type PendingRegistrationStore struct {
	mock.Mock
}

func (m *PendingRegistrationStore) Replace(ctx context.Context, pending model.PendingRegistration) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *PendingRegistrationStore) GetByToken(ctx context.Context, token string) (model.PendingRegistration, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.PendingRegistration), args.Error(1)
}

func (m *PendingRegistrationStore) GetByEmail(ctx context.Context, email string) (model.PendingRegistration, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.PendingRegistration), args.Error(1)
}

func (m *PendingRegistrationStore) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *PendingRegistrationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type PasswordResetStore struct {
	mock.Mock
}

func (m *PasswordResetStore) Replace(ctx context.Context, token model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *PasswordResetStore) GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.PasswordResetToken), args.Error(1)
}

func (m *PasswordResetStore) MarkUsed(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *PasswordResetStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *PasswordResetStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type PendingEmailChangeStore struct {
	mock.Mock
}

func (m *PendingEmailChangeStore) Replace(ctx context.Context, change model.PendingEmailChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *PendingEmailChangeStore) GetByToken(ctx context.Context, token string) (model.PendingEmailChange, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.PendingEmailChange), args.Error(1)
}

func (m *PendingEmailChangeStore) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *PendingEmailChangeStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *PendingEmailChangeStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
