package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ddanilov/authcore/internal/api/http/handler"
	"github.com/ddanilov/authcore/internal/api/http/middleware"
)

// Router assembles the HTTP surface of the service.
type Router struct {
	auth         *handler.Auth
	user         *handler.User
	authenticate *middleware.Authenticate
}

func New(auth *handler.Auth, user *handler.User, authenticate *middleware.Authenticate) *Router {
	return &Router{auth: auth, user: user, authenticate: authenticate}
}

// Register builds the Fiber app with every route attached.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	auth := app.Group("/auth")
	auth.Post("/register", r.auth.Register)
	auth.Post("/login", r.auth.Login)
	auth.Post("/refresh", r.auth.Refresh)
	auth.Post("/logout", r.auth.Logout)
	auth.Get("/verify-email", r.auth.VerifyEmail)
	auth.Post("/forgot-password", r.auth.ForgotPassword)
	auth.Post("/reset-password", r.auth.ResetPassword)
	auth.Post("/resend-verification", r.auth.ResendVerification)
	auth.Get("/verify-email-change", r.auth.VerifyEmailChange)
	auth.Get("/google", r.auth.GoogleRedirect)
	auth.Get("/google/callback", r.auth.GoogleCallback)

	sessions := auth.Group("/sessions", r.authenticate.Handler)
	sessions.Get("/", r.auth.Sessions)
	sessions.Post("/revoke", r.auth.RevokeAllSessions)

	users := app.Group("/users", r.authenticate.Handler)
	users.Get("/me", r.user.Me)
	users.Patch("/me/email", r.user.ChangeEmail)
	users.Patch("/me/password", r.user.ChangePassword)
	users.Delete("/me", r.user.DeleteAccount)

	return app
}
