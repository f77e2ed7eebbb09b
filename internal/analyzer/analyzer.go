// Package analyzer implements the plan analyzer (component A): a
// recursive walk over a parsed plan tree that computes planner
// estimate error, exclusive cost/duration, parallel-awareness, and
// outlier tags, annotating the tree in place.
package analyzer

import (
	"context"
	"strings"

	"github.com/pgxplain/xplain/internal/model"
	"github.com/pgxplain/xplain/internal/telemetry"
)

// accumulators tracks the three tree maxima for a single Analyze call.
// Scoped as a local value (never a package or struct field) so repeated
// or concurrent Analyze calls never interfere (spec.md §5/§9).
type accumulators struct {
	maxRows     float64
	maxCost     float64
	maxDuration float64
}

// Analyze walks plan.Content.Plan, annotating every reachable node with
// derived metrics and outlier tags, then writes the tree maxima onto
// plan.Content.
func Analyze(plan *model.Plan) error {
	return AnalyzeContext(context.Background(), plan)
}

// AnalyzeContext is Analyze, spanned with the active tracer.
func AnalyzeContext(ctx context.Context, plan *model.Plan) error {
	_, span := telemetry.Active().StartSpan(ctx, "xplain.analyze")
	defer span.End()

	if plan == nil || plan.Content == nil || plan.Content.Plan == nil {
		return model.NewParseError("analyze: empty plan")
	}
	acc := &accumulators{}
	walk(plan.Content.Plan, false, acc)

	plan.Content.MaximumRows = acc.maxRows
	plan.Content.MaximumCosts = acc.maxCost
	plan.Content.MaximumDuration = acc.maxDuration

	tagOutliers(plan.Content.Plan, acc)
	return nil
}

// walk implements the downward (estimate/parallel) and upward
// (exclusive cost/duration, maxima) phases of spec.md §4.4.
func walk(n *model.Node, parallel bool, acc *accumulators) {
	computeEstimate(n)

	isParallel := parallel || strings.Contains(n.NodeType, "Gather")
	for _, child := range n.Plans {
		walk(child, isParallel, acc)
	}

	computeDuration(n, parallel)
	computeCost(n)

	if n.ActualRows > acc.maxRows {
		acc.maxRows = n.ActualRows
	}
	if n.ActualCost != nil && *n.ActualCost > acc.maxCost {
		acc.maxCost = *n.ActualCost
	}
	if n.ActualDuration != nil && *n.ActualDuration > acc.maxDuration {
		acc.maxDuration = *n.ActualDuration
	}
}

// computeEstimate implements spec.md §4.4 step 1. A zero Plan Rows is
// treated as an unknown estimate rather than divided, mirroring
// gocmdpev's CalculatePlannerEstimate guard.
func computeEstimate(n *model.Node) {
	if n.ActualRows <= 0 || n.PlanRows == 0 {
		return
	}
	ratio := n.ActualRows / n.PlanRows
	factor := ratio
	direction := "none"
	switch {
	case ratio > 1:
		direction = "under"
	case ratio < 1:
		direction = "over"
		factor = n.PlanRows / n.ActualRows
	}
	n.PlannerEstimateFactor = &factor
	n.PlannerEstimateDirection = direction
}

// computeDuration implements spec.md §4.4 step 4: Actual Duration is
// Actual Total Time minus the recursive sum of every non-InitPlan
// descendant's own Actual Duration, not just direct children's — a
// node's exclusive time has already had its own descendants subtracted
// out, so subtracting only one level under-subtracts for any plan
// deeper than two levels.
func computeDuration(n *model.Node, parallel bool) {
	if n.ActualTotalTime == nil {
		return
	}
	duration := *n.ActualTotalTime
	if !parallel {
		duration *= n.ActualLoops
	} else {
		isParallel := n.ActualLoops > 1
		n.Parallel = &isParallel
	}
	duration -= descendantDuration(n)
	n.ActualDuration = &duration
}

// descendantDuration sums Actual Duration over every non-InitPlan
// descendant of n, recursively. An InitPlan child and its whole subtree
// are skipped entirely.
func descendantDuration(n *model.Node) float64 {
	var sum float64
	for _, child := range n.Plans {
		if child.ParentRelationship == "InitPlan" || child.ActualDuration == nil {
			continue
		}
		sum += *child.ActualDuration
		sum += descendantDuration(child)
	}
	return sum
}

// computeCost implements spec.md §4.4 step 5.
func computeCost(n *model.Node) {
	if n.TotalCost == nil {
		return
	}
	cost := *n.TotalCost
	for _, child := range n.Plans {
		if child.ParentRelationship == "InitPlan" || child.TotalCost == nil {
			continue
		}
		cost -= *child.TotalCost
	}
	if cost < 0 {
		cost = 0
	}
	n.ActualCost = &cost
}

// tagOutliers implements spec.md §4.4's second recursive pass.
func tagOutliers(n *model.Node, acc *accumulators) {
	n.CostliestNode = n.ActualCost != nil && *n.ActualCost == acc.maxCost
	n.LargestNode = n.ActualRows == acc.maxRows && n.ActualRows != 0
	n.SlowestNode = n.ActualDuration != nil && *n.ActualDuration == acc.maxDuration
	for _, child := range n.Plans {
		tagOutliers(child, acc)
	}
}
