// Package observability provides the query-tracking contract used by the
// persistence layer.
//
// A Tracker wraps each store operation: it must execute the supplied
// function exactly once and propagate its error unchanged. Implementations
// add timing, tracing or metrics around that single invocation.
package observability

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Tracker wraps a store operation with observability concerns.
type Tracker interface {
	// Track runs fn exactly once. operation names the repository operation,
	// indexName is the queried index ("" for main-table access). The error
	// returned by fn is propagated unchanged.
	Track(ctx context.Context, operation, indexName string, fn func(context.Context) error) error
}

// NopTracker runs the operation with no instrumentation.
type NopTracker struct{}

func (NopTracker) Track(ctx context.Context, _, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

// ZapTracker logs each operation's duration and outcome.
type ZapTracker struct {
	logger *zap.Logger
}

// NewZapTracker creates a tracker that logs through the given logger.
func NewZapTracker(logger *zap.Logger) *ZapTracker {
	return &ZapTracker{logger: logger}
}

func (t *ZapTracker) Track(ctx context.Context, operation, indexName string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", time.Since(start)),
	}
	if indexName != "" {
		fields = append(fields, zap.String("index", indexName))
	}
	if err != nil {
		t.logger.Warn("store operation failed", append(fields, zap.Error(err))...)
		return err
	}
	t.logger.Debug("store operation completed", fields...)
	return nil
}
