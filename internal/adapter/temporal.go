package adapter

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/workflow"
)

// Workflow exposes the workflow info the migration workflow branches on, so tests can control it
//
//go:generate mockgen -source=temporal.go -destination=../mocks/temporal.go -package=mocks -mock_names=Workflow=MockWorkflow,Activity=MockActivity
type Workflow interface {
	// GetCurrentHistoryLength returns the current length of history
	GetCurrentHistoryLength(ctx workflow.Context) int

	// IsContinueAsNewSuggested reports whether the server asks the workflow to continue as new
	IsContinueAsNewSuggested(ctx workflow.Context) bool
}

// RealWorkflow implements Workflow using the standard workflow package
type RealWorkflow struct{}

// NewWorkflow creates a new real workflow implementation
func NewWorkflow() Workflow {
	return &RealWorkflow{}
}

func (w *RealWorkflow) GetCurrentHistoryLength(ctx workflow.Context) int {
	return workflow.GetInfo(ctx).GetCurrentHistoryLength()
}

func (w *RealWorkflow) IsContinueAsNewSuggested(ctx workflow.Context) bool {
	return workflow.GetInfo(ctx).GetContinueAsNewSuggested()
}

// Activity exposes the activity info used to tag batch logs
type Activity interface {
	// GetInfo returns the activity info
	GetInfo(ctx context.Context) activity.Info
}

// RealActivity implements Activity using the standard activity package
type RealActivity struct{}

// NewActivity creates a new real activity implementation
func NewActivity() Activity {
	return &RealActivity{}
}

func (a *RealActivity) GetInfo(ctx context.Context) activity.Info {
	return activity.GetInfo(ctx)
}
