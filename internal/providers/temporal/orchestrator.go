package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/feral-file/ff-event-feed/internal/workflows"
)

//go:generate mockgen -source=orchestrator.go -destination=../../mocks/temporal_orchestrator.go -package=mocks -mock_names=TemporalOrchestrator=MockTemporalOrchestrator
type TemporalOrchestrator interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// StartMigration starts the RunMigration workflow of a job on taskQueue.
// The workflow ID is derived from the job so a job that is already running is not started twice.
func StartMigration(ctx context.Context, orchestrator TemporalOrchestrator, taskQueue string, input workflows.RunMigrationInput) (client.WorkflowRun, error) {
	if !input.Job.Valid() {
		return nil, fmt.Errorf("unknown migration job: %q", input.Job)
	}

	options := client.StartWorkflowOptions{
		ID:                    workflows.MigrationWorkflowID(input.Job),
		TaskQueue:             taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}

	w := workflows.NewWorkerMigration(nil, workflows.WorkerMigrationConfig{}, nil)
	run, err := orchestrator.ExecuteWorkflow(ctx, options, w.RunMigration, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start migration workflow %s: %w", options.ID, err)
	}

	return run, nil
}
