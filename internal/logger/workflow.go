package logger

import (
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// WorkflowFields describes the workflow execution behind ctx
func WorkflowFields(ctx workflow.Context) []zap.Field {
	info := workflow.GetInfo(ctx)
	if info == nil {
		return nil
	}

	workflowType := info.WorkflowType.Name
	if workflowType == "" {
		workflowType = "unknown"
	}

	return []zap.Field{
		zap.String("workflow_type", workflowType),
		zap.String("workflow_id", info.WorkflowExecution.ID),
		zap.String("run_id", info.WorkflowExecution.RunID),
		zap.String("namespace", info.Namespace),
		zap.String("task_queue", info.TaskQueueName),
		zap.Int32("attempt", info.Attempt),
	}
}

// fromWorkflow returns the workflow-annotated logger, or nil while the workflow is replaying
// history so that every line is written once per execution.
func fromWorkflow(ctx workflow.Context) *zap.Logger {
	if workflow.IsReplaying(ctx) {
		return nil
	}
	return log.With(WorkflowFields(ctx)...)
}

// InfoWf logs an info message from workflow code
func InfoWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if l := fromWorkflow(ctx); l != nil {
		l.Info(msg, fields...)
	}
}

// ErrorWf logs an error from workflow code
func ErrorWf(ctx workflow.Context, err error, fields ...zap.Field) {
	if l := fromWorkflow(ctx); l != nil {
		l.Error(errorMessage(err), fields...)
	}
}

// WarnWf logs a warning from workflow code
func WarnWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if l := fromWorkflow(ctx); l != nil {
		l.Warn(msg, fields...)
	}
}

// DebugWf logs a debug message from workflow code
func DebugWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	if l := fromWorkflow(ctx); l != nil {
		l.Debug(msg, fields...)
	}
}
