// Package telemetry provides an optional tracing abstraction the
// facade and dispatcher span their work with. It is pure
// instrumentation: no output the core produces depends on whether
// tracing is enabled. Adapted from the pack's tracer-interface
// convention (interface + no-op default + concrete adapter), generalized
// from database-query spans to plan parse/analyze spans.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans around core operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span captures one traced operation.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	RecordError(err error)
	SetStatus(code codes.Code, description string)
	End()
}

// NoopTracer is the zero-overhead default.
type NoopTracer struct{}

func (NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttributes(_ ...attribute.KeyValue) {}
func (noopSpan) RecordError(_ error)                   {}
func (noopSpan) SetStatus(_ codes.Code, _ string)      {}
func (noopSpan) End()                                  {}

// OtelTracer adapts an OpenTelemetry tracer to Tracer.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer wraps an OpenTelemetry tracer.
func NewOtelTracer(tracer trace.Tracer) *OtelTracer {
	return &OtelTracer{tracer: tracer}
}

func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetAttributes(attrs ...attribute.KeyValue)  { s.span.SetAttributes(attrs...) }
func (s *otelSpan) RecordError(err error)                      { s.span.RecordError(err) }
func (s *otelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}
func (s *otelSpan) End() { s.span.End() }

var (
	mu     sync.RWMutex
	active Tracer = NoopTracer{}
)

// Active returns the currently installed tracer.
func Active() Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Use installs t as the active tracer.
func Use(t Tracer) {
	mu.Lock()
	active = t
	mu.Unlock()
}

// PlanAttributes builds the standard span attributes for a parse/analyze
// operation: the node count and, when known, the routing decision (json
// vs text) the dispatcher made.
func PlanAttributes(nodeCount int, route string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.Int("xplain.node_count", nodeCount)}
	if route != "" {
		attrs = append(attrs, attribute.String("xplain.route", route))
	}
	return attrs
}
