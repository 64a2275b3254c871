package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/config"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	mat := materializer.New(clock)

	var sweepers []sweeper.Sweeper
	if cfg.HasEndedSweeper.Enabled {
		sweepers = append(sweepers, sweeper.NewHasEndedSweeper(
			sweeper.HasEndedSweeperConfig{
				BatchSize: cfg.HasEndedSweeper.BatchSize,
				Interval:  cfg.HasEndedSweeper.Interval,
			},
			dataStore, mat, clock,
		))
		logger.InfoCtx(ctx, "Initialized has-ended sweeper",
			zap.Int("batch_size", cfg.HasEndedSweeper.BatchSize),
			zap.Duration("interval", cfg.HasEndedSweeper.Interval),
		)
	}
	if cfg.FeedConsistencySweeper.Enabled {
		sweepers = append(sweepers, sweeper.NewFeedConsistencySweeper(
			sweeper.FeedConsistencySweeperConfig{
				BatchSize:      cfg.FeedConsistencySweeper.BatchSize,
				WorkerPoolSize: cfg.FeedConsistencySweeper.Worker.WorkerPoolSize,
				Interval:       cfg.FeedConsistencySweeper.Interval,
			},
			dataStore, mat, clock,
		))
		logger.InfoCtx(ctx, "Initialized feed consistency sweeper",
			zap.Int("batch_size", cfg.FeedConsistencySweeper.BatchSize),
			zap.Int("worker_pool_size", cfg.FeedConsistencySweeper.Worker.WorkerPoolSize),
			zap.Duration("interval", cfg.FeedConsistencySweeper.Interval),
		)
	}
	if len(sweepers) == 0 {
		logger.FatalCtx(ctx, "No sweeper enabled")
	}

	// Start every sweeper in its own goroutine
	errChan := make(chan error, len(sweepers))
	for _, s := range sweepers {
		go func(s sweeper.Sweeper) {
			if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("%s: %w", s.Name(), err)
			}
		}(s)
	}

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the sweepers
	cancel()

	// Give the sweepers time to finish their cycle
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range sweepers {
		wg.Add(1)
		go func(s sweeper.Sweeper) {
			defer wg.Done()
			if err := s.Stop(shutdownCtx); err != nil {
				logger.ErrorCtx(shutdownCtx, err, zap.String("sweeper", s.Name()))
			}
		}(s)
	}
	wg.Wait()

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
