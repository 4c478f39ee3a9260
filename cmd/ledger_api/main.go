package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/remitwise-ledger/internal/api_gateway"
	"github.com/remitwise-ledger/internal/api_gateway/service"
	"github.com/remitwise-ledger/internal/config"
	"github.com/remitwise-ledger/internal/data/memory"
	"github.com/remitwise-ledger/internal/data/postgres"
	"github.com/remitwise-ledger/internal/domain/bill"
	"github.com/remitwise-ledger/internal/domain/goal"
	"github.com/remitwise-ledger/internal/domain/policy"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
	"github.com/remitwise-ledger/internal/logger"
	"github.com/remitwise-ledger/internal/platform/messaging/producers"
	"github.com/remitwise-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize Kafka producer (publishes ledger events for the audit trail)
	kafkaProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories per the configured storage driver
	var (
		billRepo   bill.Repository
		splitRepo  split.Repository
		goalRepo   goal.Repository
		policyRepo policy.Repository
		postgresDB *persistence.PostgresDB
	)
	switch cfg.Ledger.Storage {
	case config.StorageMemory:
		log.Info("Using in-process record store", "retention_window", cfg.Ledger.RetentionWindow.String())
		billRepo = memory.NewBillRepository(cfg.Ledger.RetentionWindow)
		splitRepo = memory.NewSplitRepository()
		goalRepo = memory.NewGoalRepository(cfg.Ledger.RetentionWindow)
		policyRepo = memory.NewPolicyRepository(cfg.Ledger.RetentionWindow)
	default:
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		billRepo = postgres.NewBillRepository(log, postgresDB)
		splitRepo = postgres.NewSplitRepository(log, postgresDB)
		goalRepo = postgres.NewGoalRepository(log, postgresDB)
		policyRepo = postgres.NewPolicyRepository(log, postgresDB)
	}

	// Initialize services
	clock := shared.SystemClock{}
	billService := service.NewBillService(log, billRepo, kafkaProducer, clock, cfg.Ledger.BatchSettleLimit)
	splitService := service.NewSplitService(log, splitRepo, kafkaProducer, clock)
	goalService := service.NewGoalService(log, goalRepo, kafkaProducer, clock)
	policyService := service.NewPolicyService(log, policyRepo, kafkaProducer, clock)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, billService, splitService, goalService, policyService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	if postgresDB != nil {
		postgresDB.Close()
	}

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
