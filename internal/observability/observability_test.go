package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "assemble_plan", true, 10*time.Millisecond)
	rec.Observe(ctx, "assemble_plan", true, 5*time.Millisecond)
	rec.Observe(ctx, "breed_step", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond) // ignored

	snap := rec.Snapshot()
	if snap.Results["assemble_plan"]["success"] != 2 {
		t.Fatalf("expected two successes, got %+v", snap.Results)
	}
	if snap.Results["breed_step"]["error"] != 1 {
		t.Fatalf("expected one error, got %+v", snap.Results)
	}
	if snap.DurationsMS["assemble_plan"] < 15 {
		t.Fatalf("durations not accumulated: %+v", snap.DurationsMS)
	}
	if rec.Name() == "" {
		t.Fatalf("generated name expected")
	}
}

func TestJSONTraceTracerEmitsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)

	_, span := tracer.Start(context.Background(), "assemble_plan")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "breed_step")
	span.End(errors.New("jammed"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two spans, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" {
		t.Fatalf("unexpected statuses: %+v", entries)
	}
	if entries[1].Error == "" {
		t.Fatalf("error span must carry the message")
	}
	if !strings.Contains(buf.String(), "breed_step") {
		t.Fatalf("span not encoded to writer: %s", buf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder("hivecore", reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "breed_step", true, 20*time.Millisecond)
	rec.Observe(ctx, "breed_step", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond) // ignored

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("breed_step", "success")); got != 1 {
		t.Fatalf("expected one success, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("breed_step", "error")); got != 1 {
		t.Fatalf("expected one error, got %v", got)
	}
}

func TestPrometheusMetricsRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder("hivecore", reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder("hivecore", reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
