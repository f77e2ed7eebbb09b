// Package xplain implements the public facade (component F):
// create_plan(name, content, query), which builds the Plan envelope
// and invokes the analyzer.
package xplain

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/pgxplain/xplain/internal/analyzer"
	"github.com/pgxplain/xplain/internal/config"
	"github.com/pgxplain/xplain/internal/model"
	"github.com/pgxplain/xplain/internal/telemetry"
)

var interiorWhitespace = regexp.MustCompile(`\s{2,}`)

// CreatePlan builds a Plan envelope around an already-parsed content
// tree and runs the analyzer over it (spec.md §4.5).
func CreatePlan(name string, content *model.Content, query string) (*model.Plan, error) {
	return CreatePlanContext(context.Background(), name, content, query)
}

// CreatePlanContext is CreatePlan, spanned with the active tracer
// (SPEC_FULL.md §4.8). Tracing is pure instrumentation: it never
// changes the returned Plan.
func CreatePlanContext(ctx context.Context, name string, content *model.Content, query string) (*model.Plan, error) {
	ctx, span := telemetry.Active().StartSpan(ctx, "xplain.create_plan")
	defer span.End()

	now := time.Now()
	if name == "" {
		name = fmt.Sprintf("plan created on %s", now.Format(time.RFC1123))
	}

	plan := &model.Plan{
		ID:        fmt.Sprintf("%s%d", config.Active().IDTag, now.UnixMilli()),
		Name:      name,
		CreatedOn: now,
		Query:     collapseQuery(query),
		Content:   content,
		PlanStats: map[string]any{},
	}

	if err := analyzer.AnalyzeContext(ctx, plan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return plan, nil
}

// collapseQuery collapses runs of 2+ interior whitespace to a single
// space, leaving leading and trailing whitespace untouched: it finds
// every \s{2,} run and skips any run that touches either end of the
// string (see DESIGN.md). A trailing run is therefore kept as is.
func collapseQuery(q string) string {
	matches := interiorWhitespace.FindAllStringIndex(q, -1)
	if matches == nil {
		return q
	}
	var b []byte
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start == 0 || end == len(q) {
			continue
		}
		b = append(b, q[last:start]...)
		b = append(b, ' ')
		last = end
	}
	b = append(b, q[last:]...)
	return string(b)
}
