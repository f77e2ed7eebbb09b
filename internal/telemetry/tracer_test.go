package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pgxplain/xplain/internal/telemetry"
)

func TestNoopTracerNeverPanics(t *testing.T) {
	tracer := telemetry.NoopTracer{}
	ctx, span := tracer.StartSpan(context.Background(), "test.operation")
	if ctx == nil || span == nil {
		t.Fatalf("expected non-nil context and span from the no-op tracer")
	}
	span.SetAttributes(attribute.String("key", "value"))
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()
}

func TestActiveDefaultsToNoop(t *testing.T) {
	telemetry.Use(telemetry.NoopTracer{})
	if _, ok := telemetry.Active().(telemetry.NoopTracer); !ok {
		t.Fatalf("expected the default active tracer to be NoopTracer")
	}
}

func TestPlanAttributesIncludesRouteWhenKnown(t *testing.T) {
	attrs := telemetry.PlanAttributes(5, "json")
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes when route is known, got %d", len(attrs))
	}
}

func TestPlanAttributesOmitsRouteWhenEmpty(t *testing.T) {
	attrs := telemetry.PlanAttributes(5, "")
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute when route is unknown, got %d", len(attrs))
	}
}
