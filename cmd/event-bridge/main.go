package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/bridge"
	"github.com/feral-file/ff-event-feed/internal/config"
	"github.com/feral-file/ff-event-feed/internal/feed"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/messaging"
	"github.com/feral-file/ff-event-feed/internal/providers/jetstream"
	"github.com/feral-file/ff-event-feed/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEventBridgeConfig(*configFile, *envPath)
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
			"service": "event-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Event Bridge")

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
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	var publisher messaging.Publisher
	if cfg.Notification.URL != "" {
		publisher, err = jetstream.NewPublisher(
			jetstream.Config{
				URL:            cfg.Notification.URL,
				StreamName:     cfg.Notification.StreamName,
				SubjectPrefix:  cfg.Notification.SubjectPrefix,
				ConnectionName: cfg.Notification.ConnectionName,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
			},
			natsJS,
			jsonAdapter,
			adapter.NewJCS(),
		)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create feed change publisher", zap.Error(err))
		}
		defer publisher.Close()
	}

	feeds := feed.NewService(
		feed.Config{
			RetryInitialInterval: cfg.Feed.RetryInitialInterval,
			RetryMaxElapsedTime:  cfg.Feed.RetryMaxElapsedTime,
		},
		dataStore,
		grouping.NewResolver(dataStore, clock),
		materializer.New(clock),
		publisher,
		clock,
		jsonAdapter,
	)

	// Create bridge
	eventBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
			Workers:        cfg.Worker.WorkerPoolSize,
		},
		natsJS,
		feeds,
		jsonAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event bridge", zap.Error(err))
	}
	defer eventBridge.Close()
	logger.InfoCtx(ctx, "Event bridge created",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
		zap.Int("workers", cfg.Worker.WorkerPoolSize),
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the bridge
	errCh := make(chan error, 1)
	go func() {
		if err := eventBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "bridge"))
		cancel()
	}

	// Give in-flight messages time to settle
	time.Sleep(time.Second)

	logger.Info("Event Bridge stopped")
}
