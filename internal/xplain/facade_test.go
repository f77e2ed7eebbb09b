package xplain_test

import (
	"strings"
	"testing"

	"github.com/pgxplain/xplain/internal/config"
	"github.com/pgxplain/xplain/internal/model"
	"github.com/pgxplain/xplain/internal/xplain"
)

func TestCreatePlanBuildsEnvelopeAndAnalyzes(t *testing.T) {
	config.Use(config.Default())
	t.Cleanup(func() { config.Use(config.Default()) })

	floatVal := 5.0
	content := &model.Content{
		Plan: &model.Node{
			NodeType:        "Seq Scan",
			PlanRows:        10,
			ActualRows:      10,
			ActualLoops:     1,
			TotalCost:       &floatVal,
			ActualTotalTime: &floatVal,
		},
	}

	plan, err := xplain.CreatePlan("my plan", content, "select  1   from orders")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.Name != "my plan" {
		t.Fatalf("unexpected name: %q", plan.Name)
	}
	if !strings.HasPrefix(plan.ID, config.Active().IDTag) {
		t.Fatalf("expected id to carry the configured tag, got %q", plan.ID)
	}
	if plan.Query != "select 1 from orders" {
		t.Fatalf("expected collapsed interior whitespace, got %q", plan.Query)
	}
	if plan.Content.Plan.ActualCost == nil {
		t.Fatalf("expected the analyzer to have run and annotated the plan")
	}
}

func TestCreatePlanDefaultsName(t *testing.T) {
	floatVal := 1.0
	content := &model.Content{
		Plan: &model.Node{NodeType: "Result", PlanRows: 1, ActualRows: 1, ActualLoops: 1, TotalCost: &floatVal, ActualTotalTime: &floatVal},
	}
	plan, err := xplain.CreatePlan("", content, "")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.Name == "" {
		t.Fatalf("expected a default name to be generated")
	}
}

func TestCreatePlanPreservesLeadingAndTrailingWhitespace(t *testing.T) {
	content := &model.Content{
		Plan: &model.Node{NodeType: "Result", PlanRows: 1, ActualRows: 1, ActualLoops: 1},
	}
	plan, err := xplain.CreatePlan("p", content, "  select   1  ")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.Query != "  select 1  " {
		t.Fatalf("expected only interior whitespace collapsed, got %q", plan.Query)
	}
}
