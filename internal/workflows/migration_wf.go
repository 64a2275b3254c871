package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/logger"
)

// RunMigration runs a backfill job batch by batch.
// Each batch is one activity that checkpoints its position, so a failed workflow can be restarted
// with Resume and continue where the last completed batch stopped.
func (w *workerMigration) RunMigration(ctx workflow.Context, input RunMigrationInput) (*MigrationSummary, error) {
	if !input.Job.Valid() {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unknown migration job %q", input.Job), NON_RETRYABLE_ERROR_TYPE, nil)
	}

	logger.InfoWf(ctx, "Starting migration workflow",
		zap.String("job", string(input.Job)),
		zap.Bool("dryRun", input.Options.DryRun),
		zap.Int("batchSize", input.Options.BatchSize),
		zap.String("afterKey", input.AfterKey))

	if input.Options.DryRun {
		return w.runDryRun(ctx, input)
	}

	batchCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.BatchActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        w.config.BatchActivityMaxAttempts,
			NonRetryableErrorTypes: []string{NON_RETRYABLE_ERROR_TYPE},
		},
	})

	summary := input.Totals
	afterKey := input.AfterKey
	if summary == nil {
		summary = &MigrationSummary{Job: input.Job}

		if input.Options.Resume && afterKey == "" {
			err := workflow.ExecuteActivity(batchCtx, w.executor.GetMigrationCheckpoint, input.Job).Get(ctx, &afterKey)
			if err != nil {
				logger.ErrorWf(ctx, fmt.Errorf("failed to get migration checkpoint: %w", err),
					zap.String("job", string(input.Job)))
				return nil, err
			}
			summary.LastProcessedKey = afterKey
		}
	}

	for {
		var batch BatchResult
		err := workflow.ExecuteActivity(batchCtx, w.executor.RunMigrationBatch, input.Job, input.Options, afterKey).Get(ctx, &batch)
		if err != nil {
			logger.ErrorWf(ctx, fmt.Errorf("migration batch failed: %w", err),
				zap.String("job", string(input.Job)),
				zap.String("afterKey", afterKey),
				zap.Int("batches", summary.Batches))
			return nil, err
		}

		summary.add(&batch)
		afterKey = summary.LastProcessedKey

		logger.DebugWf(ctx, "Migration batch completed",
			zap.String("job", string(input.Job)),
			zap.Int("processed", batch.Processed),
			zap.Int("changed", batch.Changed),
			zap.String("lastProcessedKey", batch.LastProcessedKey),
			zap.Bool("done", batch.Done))

		if batch.Done {
			break
		}
		if input.Options.MaxBatches > 0 && summary.Batches >= input.Options.MaxBatches {
			break
		}

		if w.temporalWorkflow.GetCurrentHistoryLength(ctx) >= w.config.ContinueAsNewHistoryLength ||
			w.temporalWorkflow.IsContinueAsNewSuggested(ctx) {
			logger.InfoWf(ctx, "Continuing migration workflow as new",
				zap.String("job", string(input.Job)),
				zap.Int("batches", summary.Batches),
				zap.String("afterKey", afterKey))

			return nil, workflow.NewContinueAsNewError(ctx, w.RunMigration, RunMigrationInput{
				Job:      input.Job,
				Options:  input.Options,
				AfterKey: afterKey,
				Totals:   summary,
			})
		}
	}

	if err := workflow.ExecuteActivity(batchCtx, w.executor.SaveMigrationSummary, summary).Get(ctx, nil); err != nil {
		// The job itself succeeded, only the last report is missing
		logger.WarnWf(ctx, "Failed to save migration summary",
			zap.String("job", string(input.Job)),
			zap.Error(err))
	}

	logger.InfoWf(ctx, "Migration workflow completed",
		zap.String("job", string(input.Job)),
		zap.Int("batches", summary.Batches),
		zap.Int("processed", summary.Processed),
		zap.Int("changed", summary.Changed),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("skipped", summary.Skipped),
		zap.Bool("done", summary.Done))

	return summary, nil
}

// runDryRun runs the whole job in one activity and writes nothing
func (w *workerMigration) runDryRun(ctx workflow.Context, input RunMigrationInput) (*MigrationSummary, error) {
	dryRunCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.DryRunActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        2,
			NonRetryableErrorTypes: []string{NON_RETRYABLE_ERROR_TYPE},
		},
	})

	var summary MigrationSummary
	err := workflow.ExecuteActivity(dryRunCtx, w.executor.RunMigrationDryRun, input.Job, input.Options).Get(ctx, &summary)
	if err != nil {
		logger.ErrorWf(ctx, fmt.Errorf("migration dry run failed: %w", err), zap.String("job", string(input.Job)))
		return nil, err
	}

	logger.InfoWf(ctx, "Migration dry run completed",
		zap.String("job", string(input.Job)),
		zap.Int("processed", summary.Processed),
		zap.Int("changed", summary.Changed),
		zap.Int("skipped", summary.Skipped))

	return &summary, nil
}
