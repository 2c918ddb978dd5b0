package model

import "errors"

// Engine error taxonomy. Services return these (possibly wrapped); the
// transport layer maps them to status codes. Store and infrastructure
// failures are wrapped with fmt.Errorf and propagate as-is.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailInUse            = errors.New("email already in use")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyUsed           = errors.New("token already used")
	ErrSessionInvalidated    = errors.New("session invalidated")
	ErrNotFound              = errors.New("record not found")
	ErrConflict              = errors.New("conflict")
)
