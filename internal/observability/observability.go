// Package observability defines the metrics and tracing hooks consumed by
// the planner and executor, with expvar, JSON-line, and Prometheus
// implementations.
package observability

import (
	"context"
	"time"
)

// MetricsRecorder receives one observation per engine operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan ends one traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer opens spans around engine operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// NopMetricsRecorder discards every observation.
type NopMetricsRecorder struct{}

// Observe implements MetricsRecorder.
func (NopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// NopTracer opens spans that do nothing.
type NopTracer struct{}

// Start implements Tracer.
func (NopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End(error) {}
