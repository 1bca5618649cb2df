package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/router"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/config"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/logger"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"

	"github.com/joho/godotenv"
)

// @title EduLearn API
// @version 1.0
// @description Course catalogue, purchases and gated course content
// @host localhost:8080
// @BasePath /v1
// @Schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 2. Resolve secrets kept in Secret Manager
	if cfg.NeedsSecrets() {
		sm, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		if err := cfg.ResolveSecrets(ctx, sm.GetSecret); err != nil {
			logger.Fatal().Msgf("Failed to resolve secrets: %v", err)
		}
		sm.Close()
		logger.Info().Msg("Secrets resolved from Secret Manager")
	}

	// 3. Build router (and get DB connection)
	r, res, err := router.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer res.Close()

	// 4. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Msgf("Server forced to shutdown: %v", err)
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
