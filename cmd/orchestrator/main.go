package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/router"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/config"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/logger"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/orchestrator/purchaseevents"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/pgmq"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/pubsub"

	"github.com/joho/godotenv"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "", "Orchestrator mode: purchase-events")
	flag.Parse()

	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize DB pool
	pool, err := router.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	logger.Info().Msg("Database connection established")

	// Initialize PGMQ client
	pgmqClient := pgmq.New(pool)

	// Dispatch to the selected orchestrator
	var runErr error
	switch *mode {
	case "purchase-events":
		opts := purchaseevents.Options{
			Queue:          cfg.PurchaseEventsQueueName,
			DeadLetter:     cfg.PurchaseEventsDLQName,
			Topic:          cfg.PurchaseEventsTopic,
			VisibilitySec:  cfg.PurchaseEventsVisibilitySec,
			MaxMessages:    cfg.PurchaseEventsPollMaxMsg,
			PollSec:        cfg.PurchaseEventsPollTimeoutSec,
			MaxRetries:     cfg.PurchaseEventsMaxRetries,
			BackoffInitial: time.Duration(cfg.PurchaseEventsBackoffInitSec) * time.Second,
			BackoffMax:     time.Duration(cfg.PurchaseEventsBackoffMaxSec) * time.Second,
		}
		if err := opts.Validate(); err != nil {
			logger.Fatal().Msgf("Invalid purchase events config: %v", err)
		}
		publisher, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
		}
		defer publisher.Close()
		runErr = purchaseevents.Run(ctx, logger, pgmqClient, publisher, opts)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s orchestrator failed: %v", *mode, runErr)
	}

	logger.Info().Msgf("%s orchestrator stopped gracefully", *mode)
}
