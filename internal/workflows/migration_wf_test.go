package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/migration"
	"github.com/feral-file/ff-event-feed/internal/mocks"
	"github.com/feral-file/ff-event-feed/internal/workflows"
)

// MigrationWorkflowTestSuite is the test suite for the migration workflow
type MigrationWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env              *testsuite.TestWorkflowEnvironment
	ctrl             *gomock.Controller
	executor         *mocks.MockMigrationExecutor
	temporalWorkflow *mocks.MockWorkflow
	worker           workflows.WorkerMigration
}

// SetupTest is called before each test
func (s *MigrationWorkflowTestSuite) SetupTest() {
	_ = logger.Initialize(logger.Config{
		Debug: true,
	})

	s.env = s.NewTestWorkflowEnvironment()
	s.ctrl = gomock.NewController(s.T())
	s.executor = mocks.NewMockMigrationExecutor(s.ctrl)
	s.temporalWorkflow = mocks.NewMockWorkflow(s.ctrl)
	s.worker = workflows.NewWorkerMigration(s.executor, workflows.WorkerMigrationConfig{
		ContinueAsNewHistoryLength: 1000,
	}, s.temporalWorkflow)
}

// TearDownTest is called after each test
func (s *MigrationWorkflowTestSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
	s.ctrl.Finish()
}

// TestMigrationWorkflowTestSuite runs the test suite
func TestMigrationWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationWorkflowTestSuite))
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_RunsBatchesUntilDone() {
	job := migration.JobMaterializeGroupedFeeds
	opts := migration.Options{BatchSize: 2}

	s.temporalWorkflow.EXPECT().GetCurrentHistoryLength(gomock.Any()).Return(10).AnyTimes()
	s.temporalWorkflow.EXPECT().IsContinueAsNewSuggested(gomock.Any()).Return(false).AnyTimes()

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(&workflows.BatchResult{Processed: 2, Changed: 1, Unchanged: 1, LastProcessedKey: "k2"}, nil).Once()
	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "k2").
		Return(&workflows.BatchResult{Processed: 2, Changed: 2, LastProcessedKey: "k4"}, nil).Once()
	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "k4").
		Return(&workflows.BatchResult{Processed: 1, Skipped: 1, LastProcessedKey: "k5", Done: true}, nil).Once()
	s.env.OnActivity(s.executor.SaveMigrationSummary, mock.Anything, mock.Anything).
		Return(func(_ context.Context, summary *workflows.MigrationSummary) error {
			s.Equal(3, summary.Batches)
			s.True(summary.Done)
			return nil
		}).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var summary workflows.MigrationSummary
	s.NoError(s.env.GetWorkflowResult(&summary))
	s.Equal(workflows.MigrationSummary{
		Job:              job,
		Batches:          3,
		Processed:        5,
		Changed:          3,
		Unchanged:        1,
		Skipped:          1,
		LastProcessedKey: "k5",
		Done:             true,
	}, summary)
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_ResumesFromCheckpoint() {
	job := migration.JobAssignSimilarityGroups
	opts := migration.Options{BatchSize: 10, Resume: true}

	s.temporalWorkflow.EXPECT().GetCurrentHistoryLength(gomock.Any()).Return(10).AnyTimes()
	s.temporalWorkflow.EXPECT().IsContinueAsNewSuggested(gomock.Any()).Return(false).AnyTimes()

	s.env.OnActivity(s.executor.GetMigrationCheckpoint, mock.Anything, job).Return("k7", nil).Once()
	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "k7").
		Return(&workflows.BatchResult{Processed: 3, Changed: 3, LastProcessedKey: "k10", Done: true}, nil).Once()
	s.env.OnActivity(s.executor.SaveMigrationSummary, mock.Anything, mock.Anything).Return(nil).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var summary workflows.MigrationSummary
	s.NoError(s.env.GetWorkflowResult(&summary))
	s.Equal("k10", summary.LastProcessedKey)
	s.Equal(1, summary.Batches)
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_StopsAtMaxBatches() {
	job := migration.JobPropagateGroupIDs
	opts := migration.Options{BatchSize: 1, MaxBatches: 2}

	s.temporalWorkflow.EXPECT().GetCurrentHistoryLength(gomock.Any()).Return(10).AnyTimes()
	s.temporalWorkflow.EXPECT().IsContinueAsNewSuggested(gomock.Any()).Return(false).AnyTimes()

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(&workflows.BatchResult{Processed: 1, Changed: 1, LastProcessedKey: "k1"}, nil).Once()
	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "k1").
		Return(&workflows.BatchResult{Processed: 1, Changed: 1, LastProcessedKey: "k2"}, nil).Once()
	s.env.OnActivity(s.executor.SaveMigrationSummary, mock.Anything, mock.Anything).Return(nil).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var summary workflows.MigrationSummary
	s.NoError(s.env.GetWorkflowResult(&summary))
	s.False(summary.Done)
	s.Equal(2, summary.Batches)
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_ContinuesAsNew() {
	job := migration.JobRepairDenormalizedTimestamps
	opts := migration.Options{BatchSize: 5}

	s.temporalWorkflow.EXPECT().GetCurrentHistoryLength(gomock.Any()).Return(5000).AnyTimes()

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(&workflows.BatchResult{Processed: 5, Changed: 5, LastProcessedKey: "k5"}, nil).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)

	var continueAsNew *workflow.ContinueAsNewError
	s.True(errors.As(err, &continueAsNew))
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_ContinuesAsNewWhenSuggested() {
	job := migration.JobPropagateGroupIDs
	opts := migration.Options{BatchSize: 5}

	s.temporalWorkflow.EXPECT().GetCurrentHistoryLength(gomock.Any()).Return(10).AnyTimes()
	s.temporalWorkflow.EXPECT().IsContinueAsNewSuggested(gomock.Any()).Return(true).AnyTimes()

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(&workflows.BatchResult{Processed: 5, Changed: 1, Unchanged: 4, LastProcessedKey: "k5"}, nil).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	var continueAsNew *workflow.ContinueAsNewError
	s.True(errors.As(s.env.GetWorkflowError(), &continueAsNew))
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_DryRunUsesSingleActivity() {
	job := migration.JobAssignSimilarityGroups
	opts := migration.Options{BatchSize: 50, DryRun: true}

	s.env.OnActivity(s.executor.RunMigrationDryRun, mock.Anything, job, opts).
		Return(&workflows.MigrationSummary{Job: job, DryRun: true, Batches: 4, Processed: 180, Changed: 12, Done: true}, nil).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var summary workflows.MigrationSummary
	s.NoError(s.env.GetWorkflowResult(&summary))
	s.True(summary.DryRun)
	s.Equal(12, summary.Changed)
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_BatchFailure() {
	job := migration.JobMaterializeGroupedFeeds
	opts := migration.Options{BatchSize: 5}

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(nil, temporal.NewNonRetryableApplicationError("malformed checkpoint key", workflows.NON_RETRYABLE_ERROR_TYPE, nil)).Once()

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_UnknownJob() {
	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: migration.Job("rebuild-everything")})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "unknown migration job")
}

func (s *MigrationWorkflowTestSuite) TestRunMigration_SummaryFailureDoesNotFailJob() {
	job := migration.JobPropagateGroupIDs
	opts := migration.Options{BatchSize: 5}

	s.env.OnActivity(s.executor.RunMigrationBatch, mock.Anything, job, opts, "").
		Return(&workflows.BatchResult{Processed: 2, Changed: 2, LastProcessedKey: "k2", Done: true}, nil).Once()
	s.env.OnActivity(s.executor.SaveMigrationSummary, mock.Anything, mock.Anything).
		Return(temporal.NewNonRetryableApplicationError("db down", workflows.NON_RETRYABLE_ERROR_TYPE, nil))

	s.env.ExecuteWorkflow(s.worker.RunMigration, workflows.RunMigrationInput{Job: job, Options: opts})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func TestMigrationWorkflowID(t *testing.T) {
	if got := workflows.MigrationWorkflowID(migration.JobPropagateGroupIDs); got != "feed-migration-propagate-group-ids" {
		t.Fatalf("unexpected workflow ID %q", got)
	}
}
