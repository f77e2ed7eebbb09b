// Package model defines the open-mapping data model shared by the
// dispatcher, parsers, analyzer, and facade: Plan, Node, Worker, and
// Trigger.
package model

import "time"

// Plan is the envelope returned by the public facade.
type Plan struct {
	ID        string
	Name      string
	CreatedOn time.Time
	Query     string
	Content   *Content
	PlanStats map[string]any
}

// Content is the plan-tree root: the root Node plus any accumulated
// triggers and the analyzer-injected tree maxima.
type Content struct {
	Plan     *Node
	Triggers []*Trigger

	MaximumRows     float64
	MaximumCosts    float64
	MaximumDuration float64
}

// Buffers holds ten composed buffer counters as typed fields. Any other
// kind/method pair (including temp hit and temp dirtied) falls through
// to the owning Node's Extra map (Open Question (b)).
type Buffers struct {
	SharedHit     int64
	SharedRead    int64
	SharedDirtied int64
	SharedWritten int64
	LocalHit      int64
	LocalRead     int64
	LocalDirtied  int64
	LocalWritten  int64
	TempRead      int64
	TempWritten   int64
}

// Node is an open mapping keyed by well-known property names. Known
// canonical properties are typed fields; everything else observed in
// the source is carried in Extra.
type Node struct {
	NodeType           string
	ParentRelationship string
	SubplanName        string

	Plans   []*Node
	Workers []*Worker

	StartupCost float64
	TotalCost   *float64
	PlanRows    float64
	PlanWidth   float64

	ActualStartupTime *float64
	ActualTotalTime   *float64
	ActualRows        float64
	ActualLoops       float64

	ActualCost               *float64
	ActualDuration           *float64
	PlannerEstimateFactor    *float64
	PlannerEstimateDirection string
	Parallel                 *bool

	CostliestNode bool
	LargestNode   bool
	SlowestNode   bool

	SortMethod    string
	SortSpaceType string
	SortSpaceUsed *int64

	Buffers Buffers

	Extra map[string]any
}

// SetExtra stores a free-form property, creating the map on first use.
func (n *Node) SetExtra(key string, value any) {
	if n.Extra == nil {
		n.Extra = make(map[string]any)
	}
	n.Extra[key] = value
}

// SetSort records the three sort-annotation properties (§4.3.5 rule 1).
func (n *Node) SetSort(method, spaceType string, spaceUsedKB int64) {
	n.SortMethod = method
	n.SortSpaceType = spaceType
	n.SortSpaceUsed = &spaceUsedKB
}

// SetBuffer records one buffer counter given its kind and method, e.g.
// ("shared", "hit") for "Shared Hit Blocks". Unrecognized kind/method
// pairs fall through to Extra under the composed name, so the buffers
// grammar stays extensible (Open Question (b)).
func (n *Node) SetBuffer(kind, method string, count int64) {
	if !setBufferField(&n.Buffers, kind, method, count) {
		n.SetExtra(bufferKey(kind, method), count)
	}
}

// Worker is a parallel-worker contribution to a parent Node.
type Worker struct {
	Number int64

	ActualStartupTime *float64
	ActualTotalTime   *float64
	ActualRows        float64
	ActualLoops       float64

	SortMethod    string
	SortSpaceType string
	SortSpaceUsed *int64

	Extra map[string]any
}

// SetExtra stores a free-form property harvested from the worker's
// trailing text, creating the map on first use.
func (w *Worker) SetExtra(key string, value any) {
	if w.Extra == nil {
		w.Extra = make(map[string]any)
	}
	w.Extra[key] = value
}

// SetSort records the three sort-annotation properties on a Worker.
func (w *Worker) SetSort(method, spaceType string, spaceUsedKB int64) {
	w.SortMethod = method
	w.SortSpaceType = spaceType
	w.SortSpaceUsed = &spaceUsedKB
}

// Trigger is a post-execution trigger-statistics entry.
type Trigger struct {
	Name  string
	Time  float64
	Calls string
}

func bufferKey(kind, method string) string {
	return TitleCase(kind) + " " + TitleCase(method) + " Blocks"
}

func setBufferField(b *Buffers, kind, method string, count int64) bool {
	switch {
	case kind == "shared" && method == "hit":
		b.SharedHit = count
	case kind == "shared" && method == "read":
		b.SharedRead = count
	case kind == "shared" && method == "dirtied":
		b.SharedDirtied = count
	case kind == "shared" && method == "written":
		b.SharedWritten = count
	case kind == "local" && method == "hit":
		b.LocalHit = count
	case kind == "local" && method == "read":
		b.LocalRead = count
	case kind == "local" && method == "dirtied":
		b.LocalDirtied = count
	case kind == "local" && method == "written":
		b.LocalWritten = count
	case kind == "temp" && method == "read":
		b.TempRead = count
	case kind == "temp" && method == "written":
		b.TempWritten = count
	default:
		return false
	}
	return true
}
