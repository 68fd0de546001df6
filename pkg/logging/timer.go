package logging

import (
	"context"
	"log/slog"
	"time"
)

// OperationTimer tracks the latency of a single operation
type OperationTimer struct {
	logger    *slog.Logger
	operation string
	startTime time.Time
	ctx       context.Context
}

// StartTimer creates a new operation timer. A request ID is added to ctx
// when it does not carry one yet.
func StartTimer(ctx context.Context, logger *slog.Logger, operation string) *OperationTimer {
	startTime := time.Now()

	if GetRequestID(ctx) == "" {
		ctx = NewRequestContext(ctx, operation)
	}

	logger.DebugContext(ctx, "Operation started",
		slog.String("operation", operation),
		slog.String("request_id", GetRequestID(ctx)),
	)

	return &OperationTimer{
		logger:    logger,
		operation: operation,
		startTime: startTime,
		ctx:       ctx,
	}
}

// Context returns the context the timer logs with
func (t *OperationTimer) Context() context.Context {
	return t.ctx
}

// End completes the timer and logs the duration
func (t *OperationTimer) End() time.Duration {
	duration := time.Since(t.startTime)

	t.logger.DebugContext(t.ctx, "Operation completed",
		slog.String("operation", t.operation),
		slog.String("request_id", GetRequestID(t.ctx)),
		slog.Duration("duration", duration),
	)

	return duration
}

// EndWithError completes the timer and logs the duration with an error
func (t *OperationTimer) EndWithError(err error) time.Duration {
	if err == nil {
		return t.End()
	}

	duration := time.Since(t.startTime)
	t.logger.ErrorContext(t.ctx, "Operation failed",
		slog.String("operation", t.operation),
		slog.String("request_id", GetRequestID(t.ctx)),
		slog.Duration("duration", duration),
		slog.String("error", err.Error()),
	)

	return duration
}
