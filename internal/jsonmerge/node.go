package jsonmerge

import (
	"encoding/json"
	"fmt"

	"github.com/pgxplain/xplain/internal/model"
)

// ToContent translates a merged top-level JSON entry (as produced by
// Parse) into a *model.Content, routing every canonical property
// spec.md's data model names into typed fields and everything else into
// each node's Extra map.
func ToContent(entry map[string]any) (*model.Content, error) {
	planRaw, ok := entry["Plan"]
	if !ok {
		return nil, model.NewParseError("json plan: no top-level \"Plan\" key")
	}
	planMap, ok := planRaw.(map[string]any)
	if !ok {
		return nil, model.NewParseError("json plan: \"Plan\" is not an object")
	}

	root, err := nodeFromMap(planMap)
	if err != nil {
		return nil, err
	}

	content := &model.Content{Plan: root}
	if triggersRaw, ok := entry["Triggers"]; ok {
		triggers, ok := triggersRaw.([]any)
		if !ok {
			return nil, model.NewParseError("json plan: \"Triggers\" is not a sequence")
		}
		for _, t := range triggers {
			tm, ok := t.(map[string]any)
			if !ok {
				continue
			}
			content.Triggers = append(content.Triggers, triggerFromMap(tm))
		}
	}
	return content, nil
}

var knownNodeKeys = map[string]bool{
	"Node Type": true, "Plans": true, "Workers": true,
	"Parent Relationship": true, "Subplan Name": true,
	"Startup Cost": true, "Total Cost": true, "Plan Rows": true, "Plan Width": true,
	"Actual Startup Time": true, "Actual Total Time": true, "Actual Rows": true, "Actual Loops": true,
	"Actual Cost": true, "Actual Duration": true,
	"Planner Estimate Factor": true, "Planner Estimate Direction": true, "Parallel": true,
	"Costliest Node": true, "Largest Node": true, "Slowest Node": true,
	"Sort Method": true, "Sort Space Type": true, "Sort Space Used": true,
}

func nodeFromMap(m map[string]any) (*model.Node, error) {
	n := &model.Node{
		NodeType:           asString(m["Node Type"]),
		ParentRelationship: asString(m["Parent Relationship"]),
		SubplanName:        asString(m["Subplan Name"]),
		StartupCost:        asFloat(m["Startup Cost"]),
		PlanRows:           asFloat(m["Plan Rows"]),
		PlanWidth:          asFloat(m["Plan Width"]),
		ActualRows:         asFloat(m["Actual Rows"]),
		ActualLoops:        asFloat(m["Actual Loops"]),
	}
	if v, ok := m["Total Cost"]; ok {
		f := asFloat(v)
		n.TotalCost = &f
	}
	if v, ok := m["Actual Startup Time"]; ok {
		f := asFloat(v)
		n.ActualStartupTime = &f
	}
	if v, ok := m["Actual Total Time"]; ok {
		f := asFloat(v)
		n.ActualTotalTime = &f
	}
	if v, ok := m["Sort Method"]; ok {
		n.SortMethod = asString(v)
		n.SortSpaceType = asString(m["Sort Space Type"])
		if kb, ok := m["Sort Space Used"]; ok {
			i := int64(asFloat(kb))
			n.SortSpaceUsed = &i
		}
	}

	for key, val := range m {
		if isBufferKey(key) {
			applyBufferKey(n, key, val)
			continue
		}
		if knownNodeKeys[key] {
			continue
		}
		n.SetExtra(key, val)
	}

	if plansRaw, ok := m["Plans"]; ok {
		plans, ok := plansRaw.([]any)
		if !ok {
			return nil, model.NewParseError("json plan: \"Plans\" is not a sequence")
		}
		for _, p := range plans {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			child, err := nodeFromMap(pm)
			if err != nil {
				return nil, err
			}
			n.Plans = append(n.Plans, child)
		}
	}

	if workersRaw, ok := m["Workers"]; ok {
		switch w := workersRaw.(type) {
		case []any:
			for _, wv := range w {
				wm, ok := wv.(map[string]any)
				if !ok {
					continue
				}
				n.Workers = append(n.Workers, workerFromMap(wm))
			}
		case map[string]any:
			// A "Workers" value that is a single object rather than a
			// sequence is taken as one worker. Repeated "Worker" keys,
			// deep-merged into one object, are handled just below.
			n.Workers = append(n.Workers, workerFromMap(w))
		}
	}
	if workerRaw, ok := m["Worker"]; ok {
		if wm, ok := workerRaw.(map[string]any); ok {
			n.Workers = append(n.Workers, workerFromMap(wm))
		}
	}

	return n, nil
}

func workerFromMap(m map[string]any) *model.Worker {
	w := &model.Worker{
		Number:      int64(asFloat(m["Worker Number"])),
		ActualRows:  asFloat(m["Actual Rows"]),
		ActualLoops: asFloat(m["Actual Loops"]),
	}
	if v, ok := m["Actual Startup Time"]; ok {
		f := asFloat(v)
		w.ActualStartupTime = &f
	}
	if v, ok := m["Actual Total Time"]; ok {
		f := asFloat(v)
		w.ActualTotalTime = &f
	}
	if v, ok := m["Sort Method"]; ok {
		w.SortMethod = asString(v)
		w.SortSpaceType = asString(m["Sort Space Type"])
		if kb, ok := m["Sort Space Used"]; ok {
			i := int64(asFloat(kb))
			w.SortSpaceUsed = &i
		}
	}
	for key, val := range m {
		switch key {
		case "Worker Number", "Actual Rows", "Actual Loops", "Actual Startup Time", "Actual Total Time",
			"Sort Method", "Sort Space Type", "Sort Space Used":
			continue
		}
		w.SetExtra(key, val)
	}
	return w
}

func triggerFromMap(m map[string]any) *model.Trigger {
	return &model.Trigger{
		Name:  asString(m["Trigger Name"]),
		Time:  asFloat(m["Time"]),
		Calls: asString(m["Calls"]),
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	case string:
		var f float64
		fmt.Sscanf(t, "%f", &f)
		return f
	default:
		return 0
	}
}
