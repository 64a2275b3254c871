package workflows

import (
	"context"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/migration"
	"github.com/feral-file/ff-event-feed/internal/store"
)

// NON_RETRYABLE_ERROR_TYPE marks activity errors that no retry can fix
const NON_RETRYABLE_ERROR_TYPE = "NonRetryableMigrationError"

// Executor defines the interface for executing migration activities
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor_migration.go -package=mocks -mock_names=Executor=MockMigrationExecutor
type Executor interface {
	// GetMigrationCheckpoint returns the stored position of a job, empty when none is stored
	GetMigrationCheckpoint(ctx context.Context, job migration.Job) (string, error)

	// RunMigrationBatch processes one batch after afterKey and checkpoints it unless it is a dry run
	RunMigrationBatch(ctx context.Context, job migration.Job, opts migration.Options, afterKey string) (*BatchResult, error)

	// RunMigrationDryRun runs a whole job without writing.
	// A dry run needs one process so the groups it assigns stay visible to later batches.
	RunMigrationDryRun(ctx context.Context, job migration.Job, opts migration.Options) (*MigrationSummary, error)

	// SaveMigrationSummary stores the summary of a finished run as the last report of the job
	SaveMigrationSummary(ctx context.Context, summary *MigrationSummary) error
}

type executor struct {
	runner      migration.Runner
	checkpoints store.CheckpointStore
	json        adapter.JSON
	activity    adapter.Activity
}

// NewExecutor creates a new executor instance
func NewExecutor(runner migration.Runner, checkpoints store.CheckpointStore, jsonAdapter adapter.JSON, activity adapter.Activity) Executor {
	return &executor{
		runner:      runner,
		checkpoints: checkpoints,
		json:        jsonAdapter,
		activity:    activity,
	}
}

// GetMigrationCheckpoint returns the stored position of a job
func (e *executor) GetMigrationCheckpoint(ctx context.Context, job migration.Job) (string, error) {
	key, err := e.checkpoints.GetCheckpoint(ctx, string(job))
	if err != nil {
		return "", activityError(err)
	}
	return key, nil
}

// RunMigrationBatch processes one batch of a job
func (e *executor) RunMigrationBatch(ctx context.Context, job migration.Job, opts migration.Options, afterKey string) (*BatchResult, error) {
	info := e.activity.GetInfo(ctx)

	report, err := e.runner.RunBatch(ctx, job, opts, afterKey)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("job", string(job)),
			zap.String("afterKey", afterKey),
			zap.Int32("attempt", info.Attempt))
		return nil, activityError(err)
	}

	logReport(ctx, report)

	return &BatchResult{
		Processed:        report.Processed,
		Changed:          report.Changed,
		Unchanged:        report.Unchanged,
		Skipped:          report.Skipped,
		LastProcessedKey: report.LastProcessedKey,
		Done:             report.Done,
	}, nil
}

// RunMigrationDryRun runs a whole job in dry-run mode
func (e *executor) RunMigrationDryRun(ctx context.Context, job migration.Job, opts migration.Options) (*MigrationSummary, error) {
	opts.DryRun = true
	opts.Resume = false

	report, err := e.runner.Run(ctx, job, opts)
	if err != nil {
		return nil, activityError(err)
	}

	logReport(ctx, report)

	return summaryOf(report), nil
}

// SaveMigrationSummary stores the summary of a finished run
func (e *executor) SaveMigrationSummary(ctx context.Context, summary *MigrationSummary) error {
	data, err := e.json.Marshal(summary)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("failed to marshal migration summary", NON_RETRYABLE_ERROR_TYPE, err)
	}

	if err := e.checkpoints.SaveReport(ctx, string(summary.Job), string(data)); err != nil {
		return activityError(err)
	}
	return nil
}

// logReport writes the diffs and skipped rows of a report to the activity log
func logReport(ctx context.Context, report *migration.Report) {
	for _, diff := range report.Diffs {
		logger.InfoCtx(ctx, "Migration diff",
			zap.String("job", string(report.Job)),
			zap.Bool("dryRun", report.DryRun),
			zap.String("key", diff.Key),
			zap.String("field", diff.Field),
			zap.String("before", diff.Before),
			zap.String("after", diff.After))
	}
	for _, row := range report.SkippedRows {
		logger.WarnCtx(ctx, "Migration skipped row",
			zap.String("job", string(report.Job)),
			zap.String("key", row.Key),
			zap.String("reason", row.Reason))
	}
}

// activityError marks errors a retry cannot fix as non retryable
func activityError(err error) error {
	if domain.IsRetryable(err) {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), NON_RETRYABLE_ERROR_TYPE, err)
}
