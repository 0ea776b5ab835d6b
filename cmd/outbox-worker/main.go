package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/config"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/logger"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Outbox Worker")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Build the delivery sink
	var sink Sink
	switch cfg.Outbox.Sink {
	case "email":
		sink = NewEmailSink(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.From,
			cfg.Outbox.EmailTo,
		)
	default:
		sink = NewWebhookSink(cfg.Outbox.WebhookURL)
	}

	outboxRepo := repositories.NewOutboxRepository(db)
	worker := NewWorker(outboxRepo, sink, cfg.Outbox.BatchSize, logger.Logger)

	// Schedule sweeps; a sweep still running when the next fires is skipped
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	ctx := context.Background()
	if _, err := c.AddFunc(cfg.Outbox.PollCron, func() {
		if err := worker.Sweep(ctx); err != nil {
			logger.Logger.Error("sweep failed", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Invalid OUTBOX_POLL_CRON expression", zap.Error(err))
	}

	c.Start()
	logger.Logger.Info("Worker started",
		zap.String("schedule", cfg.Outbox.PollCron),
		zap.String("sink", cfg.Outbox.Sink),
		zap.Int("batchSize", cfg.Outbox.BatchSize))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	<-c.Stop().Done()
	logger.Logger.Info("Worker exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
