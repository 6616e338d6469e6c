package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-catalog/config"
	"movie-catalog/logger"
	"movie-catalog/repositories"
	"movie-catalog/routes"
	"movie-catalog/services"
	"movie-catalog/session"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger(logger.ParseLevel("info"), "")
		logger.Error("invalid configuration: ", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), cfg.LogFile)
	defer logger.CloseLogger()
	if envErr != nil {
		logger.Info("No .env file found")
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database: ", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Warning("close database: ", err)
		}
	}()

	seeder := services.NewAuthService(repositories.NewUserRepository(db), services.NewBcryptHasher(0))
	if err := seeder.EnsureAdmin(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin user: ", err)
		os.Exit(1)
	}

	sessions := session.NewStore(
		session.WithTTL(cfg.SessionTTL),
		session.WithSweepInterval(cfg.SessionSweepInterval),
	)
	if err := sessions.Start(); err != nil {
		logger.Error("failed to start session reaper: ", err)
		os.Exit(1)
	}
	defer sessions.Stop()

	router := routes.SetupRouter(db, sessions, routes.Options{
		ReviewsRequireApproval: cfg.ReviewsRequireApproval,
		CookieSecure:           cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped: ", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed: ", err)
	}
}
