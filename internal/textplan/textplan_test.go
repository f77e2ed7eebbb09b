package textplan_test

import (
	"testing"

	"github.com/pgxplain/xplain/internal/textplan"
)

func TestParseSimpleTree(t *testing.T) {
	source := `Hash Join  (cost=1.10..35.50 rows=10 width=40) (actual time=0.100..0.900 rows=10 loops=1)
  ->  Seq Scan on orders  (cost=0.00..20.00 rows=1000 width=20) (actual time=0.010..0.500 rows=1000 loops=1)
  ->  Hash  (cost=1.00..1.00 rows=10 width=20) (actual time=0.050..0.050 rows=10 loops=1)
        ->  Seq Scan on customers  (cost=0.00..1.00 rows=10 width=20) (actual time=0.005..0.040 rows=10 loops=1)
Planning Time: 0.250 ms
Execution Time: 1.100 ms`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := content.Plan
	if root.NodeType != "Hash Join" {
		t.Fatalf("unexpected root node type: %q", root.NodeType)
	}
	if len(root.Plans) != 2 {
		t.Fatalf("expected 2 direct children, got %d", len(root.Plans))
	}
	hashNode := root.Plans[1]
	if hashNode.NodeType != "Hash" || len(hashNode.Plans) != 1 {
		t.Fatalf("expected Hash node with 1 child, got %+v", hashNode)
	}
	if hashNode.Plans[0].NodeType != "Seq Scan on customers" {
		t.Fatalf("unexpected grandchild: %q", hashNode.Plans[0].NodeType)
	}
	if root.Extra["Planning Time"] != 0.250 {
		t.Fatalf("expected Planning Time on root Extra, got %+v", root.Extra)
	}
	if root.Extra["Execution Time"] != 1.100 {
		t.Fatalf("expected Execution Time on root Extra, got %+v", root.Extra)
	}
}

func TestParseNeverExecuted(t *testing.T) {
	source := `Seq Scan on t  (cost=0.00..1.01 rows=1 width=4) (never executed)`
	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if content.Plan.ActualTotalTime == nil || *content.Plan.ActualTotalTime != 0 {
		t.Fatalf("expected zeroed actual stats for never-executed node")
	}
}

func TestParseSubPlanMarkerNamesChild(t *testing.T) {
	source := `Seq Scan on orders  (cost=0.00..20.00 rows=1000 width=20) (actual time=0.010..0.500 rows=1000 loops=1)
  SubPlan 1
    ->  Seq Scan on customers  (cost=0.00..1.00 rows=1 width=4) (actual time=0.005..0.005 rows=1 loops=1)`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := content.Plan
	if len(root.Plans) != 1 {
		t.Fatalf("expected 1 child under SubPlan marker, got %d", len(root.Plans))
	}
	child := root.Plans[0]
	if child.ParentRelationship != "SubPlan" {
		t.Fatalf("expected ParentRelationship SubPlan, got %q", child.ParentRelationship)
	}
	if child.SubplanName != "SubPlan 1" {
		t.Fatalf("expected raw marker text preserved, got %q", child.SubplanName)
	}
}

func TestParseCTEMarkerNamesChild(t *testing.T) {
	source := `CTE Scan on recent_orders  (cost=0.00..20.00 rows=10 width=20) (actual time=0.010..0.500 rows=10 loops=1)
  CTE recent_orders
    ->  Seq Scan on orders  (cost=0.00..20.00 rows=10 width=20) (actual time=0.010..0.500 rows=10 loops=1)`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(content.Plan.Plans) != 1 {
		t.Fatalf("expected 1 child under CTE marker, got %d", len(content.Plan.Plans))
	}
	if content.Plan.Plans[0].SubplanName != "CTE recent_orders" {
		t.Fatalf("unexpected CTE subplan name: %q", content.Plan.Plans[0].SubplanName)
	}
}

func TestParseWorkerLine(t *testing.T) {
	source := `Gather  (cost=0.00..20.00 rows=1000 width=20) (actual time=0.010..0.500 rows=1000 loops=1)
  Worker 0:  actual time=0.020..0.400 rows=500 loops=1`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(content.Plan.Workers) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(content.Plan.Workers))
	}
	w := content.Plan.Workers[0]
	if w.Number != 0 || w.ActualRows != 500 {
		t.Fatalf("unexpected worker: %+v", w)
	}
}

func TestParseBuffersAnnotation(t *testing.T) {
	source := `Seq Scan on orders  (cost=0.00..20.00 rows=1000 width=20) (actual time=0.010..0.500 rows=1000 loops=1)
  Buffers: shared hit=12 read=3, temp written=5`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := content.Plan.Buffers
	if b.SharedHit != 12 || b.SharedRead != 3 || b.TempWritten != 5 {
		t.Fatalf("unexpected buffers: %+v", b)
	}
}

func TestParseSortAnnotation(t *testing.T) {
	source := `Sort  (cost=1.10..1.20 rows=10 width=20) (actual time=0.100..0.110 rows=10 loops=1)
  Sort Method: quicksort  Memory: 25kB`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n := content.Plan
	if n.SortMethod != "quicksort" || n.SortSpaceType != "Memory" || n.SortSpaceUsed == nil || *n.SortSpaceUsed != 25 {
		t.Fatalf("unexpected sort annotation: %+v", n)
	}
}

func TestParseTriggerLine(t *testing.T) {
	source := `Insert on orders  (cost=0.00..0.01 rows=1 width=4) (actual time=0.010..0.010 rows=1 loops=1)
Trigger update_timestamp: time=1.234 calls=3`

	content, err := textplan.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(content.Triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(content.Triggers))
	}
	if content.Triggers[0].Name != "update_timestamp" || content.Triggers[0].Calls != "3" {
		t.Fatalf("unexpected trigger: %+v", content.Triggers[0])
	}
}

func TestParseNoRootFails(t *testing.T) {
	if _, err := textplan.Parse("\n\n   \n"); err == nil {
		t.Fatalf("expected error when no root node line is ever found")
	}
}
