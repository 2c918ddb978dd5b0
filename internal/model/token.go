package model

import "github.com/google/uuid"

// TokenSigner issues and verifies stateless signed tokens. Access and
// refresh tokens are signed with distinct secrets and carry a class claim,
// so possession of one class can never forge the other. Verification checks
// signature and expiry only; no store lookup happens here.
type TokenSigner interface {
	SignAccess(userID uuid.UUID) (string, error)
	SignRefresh(userID uuid.UUID) (string, error)
	VerifyAccess(token string) (uuid.UUID, error)
	VerifyRefresh(token string) (uuid.UUID, error)
}
