package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ddanilov/authcore/internal/model"
)

type TokenSigner struct {
	mock.Mock
}

func (m *TokenSigner) SignAccess(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenSigner) SignRefresh(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenSigner) VerifyAccess(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenSigner) VerifyRefresh(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(plaintext, digest string) bool {
	args := m.Called(plaintext, digest)
	return args.Bool(0)
}

type EmailDispatcher struct {
	mock.Mock
}

func (m *EmailDispatcher) Send(ctx context.Context, kind model.EmailKind, to string, token string) error {
	args := m.Called(ctx, kind, to, token)
	return args.Error(0)
}

type IdentityExchanger struct {
	mock.Mock
}

func (m *IdentityExchanger) Exchange(ctx context.Context, code string) (model.ExternalIdentity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.ExternalIdentity), args.Error(1)
}
