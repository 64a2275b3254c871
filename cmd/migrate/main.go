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
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/config"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/migration"
	temporal "github.com/feral-file/ff-event-feed/internal/providers/temporal"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/workflows"
)

const ALL_JOBS = "all"

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	jobName    = flag.String("job", "", "Job to run: assign-similarity-groups, propagate-group-ids, repair-denormalized-timestamps, materialize-grouped-feeds or all")
	dryRun     = flag.Bool("dry-run", false, "Report the changes without writing anything")
	batchSize  = flag.Int("batch-size", 0, "Rows per batch, defaults to migration.batch_size")
	resume     = flag.Bool("resume", false, "Continue from the stored checkpoint")
	maxBatches = flag.Int("max-batches", 0, "Stop after this many batches, 0 for no limit")
	remote     = flag.Bool("remote", false, "Start the job as a Temporal workflow instead of running it here")
	wait       = flag.Bool("wait", false, "With -remote, wait for the workflow to finish")
)

func main() {
	flag.Parse()

	jobs, err := selectJobs(*jobName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadMigrateConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "migrate",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	// Interrupting a local run leaves the checkpoint of the last finished batch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := migration.Options{
		DryRun:     *dryRun,
		BatchSize:  *batchSize,
		Resume:     *resume,
		MaxBatches: *maxBatches,
		BadYears: &domain.YearRange{
			From: cfg.Migration.BadYearsFrom,
			To:   cfg.Migration.BadYearsTo,
		},
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = cfg.Migration.BatchSize
	}

	jsonAdapter := adapter.NewJSON()

	if *remote {
		if err := startRemote(ctx, cfg, jobs, opts, jsonAdapter); err != nil {
			logger.FatalCtx(ctx, "Failed to run migration workflow", zap.Error(err))
		}
		return
	}

	if err := runLocal(ctx, cfg, jobs, opts, jsonAdapter); err != nil {
		logger.FatalCtx(ctx, "Failed to run migration", zap.Error(err))
	}
}

// selectJobs resolves the -job flag. "all" runs every job in deployment order.
func selectJobs(name string) ([]migration.Job, error) {
	if name == ALL_JOBS {
		return migration.Jobs, nil
	}

	job := migration.Job(name)
	if !job.Valid() {
		return nil, fmt.Errorf("unknown job %q", name)
	}
	return []migration.Job{job}, nil
}

func runLocal(ctx context.Context, cfg *config.MigrateConfig, jobs []migration.Job, opts migration.Options, jsonAdapter adapter.JSON) error {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		return fmt.Errorf("failed to configure connection pool: %w", err)
	}

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()
	runner := migration.NewRunner(
		migration.Config{Workers: cfg.Migration.Workers},
		dataStore,
		store.NewCheckpointStore(db),
		grouping.NewResolver(dataStore, clock),
		materializer.New(clock),
		clock,
		jsonAdapter,
	)

	for _, job := range jobs {
		report, err := runner.Run(ctx, job, opts)
		if err != nil {
			return fmt.Errorf("job %s: %w", job, err)
		}
		if err := printJSON(jsonAdapter, report); err != nil {
			return err
		}
	}

	return nil
}

func startRemote(ctx context.Context, cfg *config.MigrateConfig, jobs []migration.Job, opts migration.Options, jsonAdapter adapter.JSON) error {
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Temporal: %w", err)
	}
	defer temporalClient.Close()

	for _, job := range jobs {
		run, err := temporal.StartMigration(ctx, temporalClient, cfg.Temporal.MigrationTaskQueue, workflows.RunMigrationInput{
			Job:     job,
			Options: opts,
		})
		if err != nil {
			return err
		}
		logger.InfoCtx(ctx, "Started migration workflow",
			zap.String("job", string(job)),
			zap.String("workflowID", run.GetID()),
			zap.String("runID", run.GetRunID()))

		// Jobs depend on each other, so "all" always waits between them
		if !*wait && len(jobs) == 1 {
			continue
		}

		var summary workflows.MigrationSummary
		if err := run.Get(ctx, &summary); err != nil {
			return fmt.Errorf("migration workflow %s failed: %w", run.GetID(), err)
		}
		if err := printJSON(jsonAdapter, &summary); err != nil {
			return err
		}
	}

	return nil
}

func printJSON(jsonAdapter adapter.JSON, v interface{}) error {
	data, err := jsonAdapter.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
