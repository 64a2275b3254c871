package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/config"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/migration"
	temporal "github.com/feral-file/ff-event-feed/internal/providers/temporal"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerMigrationConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "worker-migration",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Worker Migration")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	checkpoints := store.NewCheckpointStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	runner := migration.NewRunner(
		migration.Config{Workers: cfg.Migration.Workers},
		dataStore,
		checkpoints,
		grouping.NewResolver(dataStore, clock),
		materializer.New(clock),
		clock,
		jsonAdapter,
	)
	executor := workflows.NewExecutor(runner, checkpoints, jsonAdapter, adapter.NewActivity())

	// Connect to Temporal with logger integration
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
	}
	defer temporalClient.Close()

	logger.InfoCtx(ctx, "Connected to Temporal",
		zap.String("host_port", cfg.Temporal.HostPort),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	// Create Temporal worker with the Sentry interceptor
	temporalWorker := worker.New(temporalClient,
		cfg.Temporal.MigrationTaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			Interceptors: []interceptor.WorkerInterceptor{
				temporal.NewSentryActivityInterceptor(),
			},
		})

	// Register workflows
	migrationWorker := workflows.NewWorkerMigration(executor, workflows.WorkerMigrationConfig{}, adapter.NewWorkflow())
	temporalWorker.RegisterWorkflow(migrationWorker.RunMigration)
	logger.InfoCtx(ctx, "Registered workflows")

	// Register activities
	temporalWorker.RegisterActivity(executor.GetMigrationCheckpoint)
	temporalWorker.RegisterActivity(executor.RunMigrationBatch)
	temporalWorker.RegisterActivity(executor.RunMigrationDryRun)
	temporalWorker.RegisterActivity(executor.SaveMigrationSummary)
	logger.InfoCtx(ctx, "Registered activities")

	if err := temporalWorker.Start(); err != nil {
		logger.FatalCtx(ctx, "Failed to start Temporal worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Worker Migration started", zap.String("task_queue", cfg.Temporal.MigrationTaskQueue))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	logger.InfoCtx(ctx, "Shutting down Worker Migration...", zap.String("signal", sig.String()))
	temporalWorker.Stop()

	logger.InfoCtx(ctx, "Worker Migration stopped")
}
