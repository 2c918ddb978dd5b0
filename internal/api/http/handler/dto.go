package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/model"
)

// Request bodies are parsed into explicit DTOs and validated before any
// value reaches the engine.

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r credentialsRequest) validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changeEmailRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"isVerified"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Verified: u.Verified, CreatedAt: u.CreatedAt}
}

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	Family    uuid.UUID `json:"family"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newSessionResponses(sessions []model.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{ID: s.ID, Family: s.Family, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt})
	}
	return out
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return errInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errWeakPassword
	}
	return nil
}
