package main

import (
	"context"
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
	"github.com/feral-file/ff-event-feed/internal/api/middleware"
	"github.com/feral-file/ff-event-feed/internal/api/server"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "feed-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Event Feed API")

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

	// Initialize store and adapters
	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Feed change notifications are optional
	var publisher messaging.Publisher
	if cfg.Notification.URL != "" {
		publisher, err = jetstream.NewPublisher(
			jetstream.Config{
				URL:            cfg.Notification.URL,
				StreamName:     cfg.Notification.StreamName,
				SubjectPrefix:  cfg.Notification.SubjectPrefix,
				ConnectionName: cfg.Notification.ConnectionName,
				MaxReconnects:  -1, // reconnect forever
				ReconnectWait:  2 * time.Second,
			},
			adapter.NewNatsJetStream(),
			jsonAdapter,
			adapter.NewJCS(),
		)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create feed change publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Feed change notifications enabled", zap.String("stream", cfg.Notification.StreamName))
	} else {
		logger.WarnCtx(ctx, "Notification URL not configured, feed change notifications are disabled")
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

	// Create server config
	serverConfig := server.Config{
		Debug:              cfg.Debug,
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:        time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}
	srv := server.New(serverConfig, feeds, clock)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
