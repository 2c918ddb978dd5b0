package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ddanilov/authcore/internal/api/http/middleware"
	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/service"
)

var (
	errInvalidEmail  = errors.New("a valid email is required")
	errWeakPassword  = errors.New("password must be at least 8 characters")
	errMissingToken  = errors.New("token is required")
	errMissingCookie = errors.New("no refresh token provided")
)

const refreshCookieName = "refreshToken"

// AuthURLProvider builds the consent-screen URL for the OAuth redirect.
type AuthURLProvider interface {
	AuthURL(state string) string
}

// Auth exposes the authentication flows over HTTP.
type Auth struct {
	service    *service.Auth
	google     AuthURLProvider
	clientURL  string
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewAuth(service *service.Auth, google AuthURLProvider, clientURL string, refreshTTL time.Duration, logger *logger.Logger) *Auth {
	return &Auth{
		service:    service,
		google:     google,
		clientURL:  clientURL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

func (h *Auth) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Register(c.UserContext(), req.Email, req.Password); err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Verification email sent. Please check your inbox.",
	})
}

func (h *Auth) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, pair, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"user":        newUserResponse(user),
		"accessToken": pair.AccessToken,
	})
}

func (h *Auth) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookieName)
	if token == "" {
		return respondError(c, fiber.StatusUnauthorized, errMissingCookie.Error())
	}

	pair, err := h.service.Refresh(c.UserContext(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		return handleError(c, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{"accessToken": pair.AccessToken})
}

func (h *Auth) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(refreshCookieName); token != "" {
		if err := h.service.Logout(c.UserContext(), token); err != nil {
			return handleError(c, err)
		}
	}

	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *Auth) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondError(c, fiber.StatusBadRequest, errMissingToken.Error())
	}

	user, err := h.service.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": newUserResponse(user)})
}

func (h *Auth) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateEmail(req.Email); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "If this email exists you will receive a reset link shortly.",
	})
}

func (h *Auth) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" {
		return respondError(c, fiber.StatusBadRequest, errMissingToken.Error())
	}
	if err := validatePassword(req.Password); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func (h *Auth) ResendVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateEmail(req.Email); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ResendVerification(c.UserContext(), req.Email); err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "If a pending registration exists, a new verification email has been sent.",
	})
}

func (h *Auth) VerifyEmailChange(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondError(c, fiber.StatusBadRequest, errMissingToken.Error())
	}

	user, err := h.service.VerifyEmailChange(c.UserContext(), token)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"user": newUserResponse(user)})
}

// GoogleRedirect sends the browser to the provider's consent screen.
func (h *Auth) GoogleRedirect(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "oauthState",
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int((5 * time.Minute).Seconds()),
	})
	return c.Redirect(h.google.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback completes the OAuth handshake and opens a session.
func (h *Auth) GoogleCallback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies("oauthState") {
		return c.Redirect(fmt.Sprintf("%s/login?error=oauth_failed", h.clientURL))
	}

	code := c.Query("code")
	if code == "" {
		return c.Redirect(fmt.Sprintf("%s/login?error=oauth_failed", h.clientURL))
	}

	_, pair, err := h.service.LoginWithGoogle(c.UserContext(), code)
	if err != nil {
		h.logger.Error("google login failed", "error", err)
		return c.Redirect(fmt.Sprintf("%s/login?error=oauth_failed", h.clientURL))
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.Redirect(fmt.Sprintf("%s/oauth/callback?accessToken=%s", h.clientURL, pair.AccessToken))
}

func (h *Auth) Sessions(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	sessions, err := h.service.ListSessions(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": newSessionResponses(sessions)})
}

func (h *Auth) RevokeAllSessions(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "unauthenticated")
	}

	if err := h.service.RevokeAllSessions(c.UserContext(), userID); err != nil {
		return handleError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"message": "All sessions revoked"})
}

func (h *Auth) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
		Path:     "/",
	})
}

func (h *Auth) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   -1,
		Path:     "/",
	})
}
