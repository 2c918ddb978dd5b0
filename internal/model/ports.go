package model

import "context"

// EmailKind selects the message template and link target for a dispatch.
type EmailKind string

const (
	EmailVerification  EmailKind = "verification"
	EmailPasswordReset EmailKind = "password_reset"
	EmailChangeConfirm EmailKind = "email_change"
)

// EmailDispatcher delivers a token-bearing message. The token record is
// always created before Send is attempted, so a delivery failure leaves a
// valid, resendable token rather than an orphaned state.
type EmailDispatcher interface {
	Send(ctx context.Context, kind EmailKind, to string, token string) error
}

// PasswordHasher abstracts the password-hashing primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// ExternalIdentity is the result of an OAuth code exchange.
type ExternalIdentity struct {
	ID    string
	Email string
}

// IdentityExchanger swaps an authorization code for a verified external
// identity.
type IdentityExchanger interface {
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
}
