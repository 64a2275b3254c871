package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/migration"
)

const (
	// MIGRATION_TASK_QUEUE is the default task queue of the migration worker
	MIGRATION_TASK_QUEUE = "feed-migration"

	DEFAULT_BATCH_ACTIVITY_TIMEOUT     = 10 * time.Minute
	DEFAULT_DRY_RUN_ACTIVITY_TIMEOUT   = 2 * time.Hour
	DEFAULT_CONTINUE_AS_NEW_HISTORY    = 10000
	DEFAULT_BATCH_ACTIVITY_MAX_ATTEMPT = 5
)

// WorkerMigration defines the interface for the backfill workflows
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker_migration.go -package=mocks -mock_names=WorkerMigration=MockMigrationWorker
type WorkerMigration interface {
	// RunMigration runs a backfill job batch by batch until it is done
	RunMigration(ctx workflow.Context, input RunMigrationInput) (*MigrationSummary, error)
}

// WorkerMigrationConfig holds the configuration of the migration workflows
type WorkerMigrationConfig struct {
	// BatchActivityTimeout bounds one RunMigrationBatch attempt
	BatchActivityTimeout time.Duration
	// DryRunActivityTimeout bounds a whole dry run, which runs inside a single activity
	DryRunActivityTimeout time.Duration
	// BatchActivityMaxAttempts is the retry budget of a batch
	BatchActivityMaxAttempts int32
	// ContinueAsNewHistoryLength is the history length after which the workflow continues as new
	ContinueAsNewHistoryLength int
}

// RunMigrationInput is the input of the RunMigration workflow
type RunMigrationInput struct {
	Job     migration.Job     `json:"job"`
	Options migration.Options `json:"options"`
	// AfterKey is the position to continue from, set when the workflow continues as new
	AfterKey string `json:"after_key,omitempty"`
	// Totals carries the counts of previous runs of the same execution chain
	Totals *MigrationSummary `json:"totals,omitempty"`
}

// BatchResult is the outcome of one batch
type BatchResult struct {
	Processed        int    `json:"processed"`
	Changed          int    `json:"changed"`
	Unchanged        int    `json:"unchanged"`
	Skipped          int    `json:"skipped"`
	LastProcessedKey string `json:"last_processed_key"`
	Done             bool   `json:"done"`
}

// MigrationSummary is the counts-only report of a workflow run.
// Diffs stay in the activity logs so they never grow the workflow history.
type MigrationSummary struct {
	Job              migration.Job `json:"job"`
	DryRun           bool          `json:"dry_run"`
	Batches          int           `json:"batches"`
	Processed        int           `json:"processed"`
	Changed          int           `json:"changed"`
	Unchanged        int           `json:"unchanged"`
	Skipped          int           `json:"skipped"`
	LastProcessedKey string        `json:"last_processed_key"`
	Done             bool          `json:"done"`
}

func (s *MigrationSummary) add(batch *BatchResult) {
	s.Batches++
	s.Processed += batch.Processed
	s.Changed += batch.Changed
	s.Unchanged += batch.Unchanged
	s.Skipped += batch.Skipped
	if batch.LastProcessedKey != "" {
		s.LastProcessedKey = batch.LastProcessedKey
	}
	s.Done = batch.Done
}

// summaryOf reduces a runner report to its counts
func summaryOf(report *migration.Report) *MigrationSummary {
	return &MigrationSummary{
		Job:              report.Job,
		DryRun:           report.DryRun,
		Batches:          report.Batches,
		Processed:        report.Processed,
		Changed:          report.Changed,
		Unchanged:        report.Unchanged,
		Skipped:          report.Skipped,
		LastProcessedKey: report.LastProcessedKey,
		Done:             report.Done,
	}
}

// MigrationWorkflowID returns the workflow ID of a job, so only one run of a job executes at a time
func MigrationWorkflowID(job migration.Job) string {
	return fmt.Sprintf("feed-migration-%s", job)
}

type workerMigration struct {
	config           WorkerMigrationConfig
	executor         Executor
	temporalWorkflow adapter.Workflow
}

// NewWorkerMigration creates a new migration worker instance
func NewWorkerMigration(executor Executor, config WorkerMigrationConfig, temporalWorkflow adapter.Workflow) WorkerMigration {
	if config.BatchActivityTimeout <= 0 {
		config.BatchActivityTimeout = DEFAULT_BATCH_ACTIVITY_TIMEOUT
	}
	if config.DryRunActivityTimeout <= 0 {
		config.DryRunActivityTimeout = DEFAULT_DRY_RUN_ACTIVITY_TIMEOUT
	}
	if config.BatchActivityMaxAttempts <= 0 {
		config.BatchActivityMaxAttempts = DEFAULT_BATCH_ACTIVITY_MAX_ATTEMPT
	}
	if config.ContinueAsNewHistoryLength <= 0 {
		config.ContinueAsNewHistoryLength = DEFAULT_CONTINUE_AS_NEW_HISTORY
	}

	return &workerMigration{
		config:           config,
		executor:         executor,
		temporalWorkflow: temporalWorkflow,
	}
}
