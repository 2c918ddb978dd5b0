package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ddanilov/authcore/internal/api/http/handler"
	"github.com/ddanilov/authcore/internal/api/http/middleware"
	"github.com/ddanilov/authcore/internal/api/http/router"
	"github.com/ddanilov/authcore/internal/config"
	"github.com/ddanilov/authcore/internal/email"
	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
	"github.com/ddanilov/authcore/internal/oauth"
	"github.com/ddanilov/authcore/internal/password"
	"github.com/ddanilov/authcore/internal/repository/postgres"
	"github.com/ddanilov/authcore/internal/service"
	"github.com/ddanilov/authcore/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)
	emailChangeRepo := postgres.NewEmailChangeRepository(db)

	signer := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.NewBcrypt()

	var dispatcher model.EmailDispatcher
	if cfg.Email.ResendAPIKey != "" {
		dispatcher = email.NewResend(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.ClientURL, logger.Component("email"))
	} else {
		logger.Warn("no resend api key configured, tokens will be logged instead of emailed")
		dispatcher = email.NewLog(logger.Component("email"))
	}

	google := oauth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)

	sessionService := service.NewSession(signer, refreshTokenRepo, logger.Component("session"), cfg.JWT.RefreshTTL)
	ephemeralService := service.NewEphemeral(userRepo, registrationRepo, resetRepo, emailChangeRepo, sessionService, logger.Component("ephemeral"))
	authService := service.NewAuth(userRepo, sessionService, ephemeralService, hasher, dispatcher, google, logger.Component("auth"))

	sweeper := service.NewSweeper(refreshTokenRepo, registrationRepo, resetRepo, emailChangeRepo, cfg.SweepEvery, logger.Component("sweeper"))

	authHandler := handler.NewAuth(authService, google, cfg.ClientURL, cfg.JWT.RefreshTTL, logger.Component("http"))
	userHandler := handler.NewUser(authService)
	authenticate := middleware.NewAuthenticate(signer, logger.Component("http"))

	app := router.New(authHandler, userHandler, authenticate).Register()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		addr := fmt.Sprintf(":%s", cfg.HTTP.Port)
		logger.Info("starting server", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
