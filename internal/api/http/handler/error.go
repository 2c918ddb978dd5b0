package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ddanilov/authcore/internal/model"
)

// handleError maps the engine error taxonomy to HTTP status codes.
// Anything outside the taxonomy is an infrastructure failure and surfaces
// as a plain 500 without leaking detail.
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return respondError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrSessionInvalidated):
		return respondError(c, fiber.StatusUnauthorized, "session invalidated, please log in again")
	case errors.Is(err, model.ErrEmailInUse):
		return respondError(c, fiber.StatusConflict, "email already in use")
	case errors.Is(err, model.ErrConflict):
		return respondError(c, fiber.StatusConflict, "conflict")
	case errors.Is(err, model.ErrInvalidOrExpiredToken):
		return respondError(c, fiber.StatusBadRequest, "invalid or expired token")
	case errors.Is(err, model.ErrAlreadyUsed):
		return respondError(c, fiber.StatusBadRequest, "token already used")
	case errors.Is(err, model.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, "not found")
	default:
		return respondError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
