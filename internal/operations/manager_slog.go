package operations

import (
	"context"
	"log/slog"
	"time"
)

// logOperationStart logs the start of a pipeline run
func (m *Manager) logOperationStart(ctx context.Context, operationID string, steps []Step) {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", operationID),
		slog.Any("steps", ids))
}

// logOperationComplete logs the completion of a pipeline run
func (m *Manager) logOperationComplete(ctx context.Context, operationID string, duration time.Duration, status OperationStatusValue) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", operationID),
		slog.String("status", string(status)),
		slog.Duration("duration", duration))
}

// logOperationError logs a pipeline error
func (m *Manager) logOperationError(ctx context.Context, operationID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "operation_error",
		slog.String("operation_id", operationID),
		slog.String("error", errorMsg))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, operationID, stageID string, number, total int) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.Int("stage_number", number),
		slog.Int("total_stages", total))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, operationID, stageID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, operationID, stageID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "stage_error",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.String("error", errorMsg))
}
