package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyad07/micro-habit-coach-sub001/internal/config"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/logger"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"github.com/iyad07/micro-habit-coach-sub001/internal/services/ai"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
	"github.com/iyad07/micro-habit-coach-sub001/internal/workers"
	"go.uber.org/zap"
)

const (
	// scheduleInterval is how often the scheduler scans profiles for due
	// refresh jobs. Jobs carry a NotBefore so over-scanning is harmless.
	scheduleInterval = 1 * time.Hour
	// suggestionRetention is how long stored suggestions are kept
	suggestionRetention = 30 * 24 * time.Hour
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for suggestion API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.WorkerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Bool("ai_enabled", cfg.AIEnabled()),
		zap.String("ai_model", cfg.AIModel),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_database")

	// Initialize repositories
	habitRepo := database.NewHabitRepository(db)
	completionRepo := database.NewCompletionRepository(db)
	profileRepo := database.NewProfileRepository(db)
	suggestionRepo := database.NewSuggestionRepository(db)

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	zapLogger.Info("connected_to_rabbitmq",
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Create the suggestion provider. Without an API key every refresh
	// uses the local template generator.
	var provider ai.SuggestionProvider
	if cfg.AIEnabled() {
		provider = ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		)
		zapLogger.Info("initialized_suggestion_provider",
			zap.String("model", cfg.AIModel),
		)
	} else {
		zapLogger.Warn("openai_key_not_configured_using_template_suggestions")
	}

	// Create the suggestion refresher
	refresher := workers.NewSuggestionRefresher(
		provider,
		suggest.NewGenerator(),
		profileRepo,
		suggestionRepo,
		completionRepo,
		habitRepo,
		jobQueue,
		zapLogger,
	)

	// Create the refresh scheduler
	scheduler := workers.NewScheduler(jobQueue, profileRepo, zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	zapLogger.Info("worker_started_consuming")

	// Process messages
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}

				if err := refresher.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("failed_to_process_job",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	// Handle queue errors
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	// Periodically schedule refresh jobs around each user's reminder hour
	// and prune suggestions past retention
	go func() {
		ticker := time.NewTicker(scheduleInterval)
		defer ticker.Stop()

		runMaintenance(ctx, scheduler, suggestionRepo, zapLogger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runMaintenance(ctx, scheduler, suggestionRepo, zapLogger)
			}
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	zapLogger.Info("shutdown_signal_received")

	// Cancel context to stop processing
	cancel()

	zapLogger.Info("worker_stopped")
}

func runMaintenance(ctx context.Context, scheduler *workers.Scheduler, suggestionRepo *database.SuggestionRepository, zapLogger *zap.Logger) {
	if err := scheduler.ScheduleRefreshJobs(ctx); err != nil {
		zapLogger.Error("failed_to_schedule_refresh_jobs", zap.Error(err))
	}

	cutoff := time.Now().Add(-suggestionRetention)
	deleted, err := suggestionRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		zapLogger.Error("failed_to_prune_suggestions", zap.Error(err))
		return
	}
	if deleted > 0 {
		zapLogger.Info("pruned_old_suggestions",
			zap.Int64("count", deleted),
			zap.Duration("retention", suggestionRetention),
		)
	}
}
