package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ddanilov/authcore/internal/api/http/middleware"
	"github.com/ddanilov/authcore/internal/service"
)

// User exposes the account-management flows of an authenticated user.
type User struct {
	service *service.Auth
}

func NewUser(service *service.Auth) *User {
	return &User{service: service}
}

func (h *User) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	user, err := h.service.GetUser(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": newUserResponse(user)})
}

func (h *User) ChangeEmail(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	var req changeEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateEmail(req.Email); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangeEmail(c.UserContext(), userID, req.Email); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Confirmation email sent to the new address.",
	})
}

func (h *User) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validatePassword(req.Password); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.UserContext(), userID, req.Password); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password changed, all sessions revoked"})
}

func (h *User) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	var req deleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Account deleted"})
}
