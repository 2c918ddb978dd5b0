package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/logger"
)

const userIDKey = "user_id"

// AccessVerifier validates access tokens and resolves the user id.
type AccessVerifier interface {
	VerifyAccess(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the user id into the
// request context.
type Authenticate struct {
	verifier AccessVerifier
	logger   *logger.Logger
}

func NewAuthenticate(verifier AccessVerifier, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, logger: logger}
}

// Handler rejects requests without a valid Bearer access token. The check
// is stateless: a revoked session's access token stays usable until its
// short natural expiry.
func (m *Authenticate) Handler(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || tokenString == header {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization token"})
	}

	userID, err := m.verifier.VerifyAccess(tokenString)
	if err != nil || userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization token"})
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

// UserIDFromCtx retrieves the authenticated user id set by Handler.
func UserIDFromCtx(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(userIDKey).(uuid.UUID)
	return userID, ok
}
