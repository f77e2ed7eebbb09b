// Package textplan implements the text plan parser (component T):
// reconstructing a hierarchical plan tree from PostgreSQL's line-
// oriented, indentation-sensitive EXPLAIN (ANALYZE) text output.
package textplan

import (
	"strconv"
	"strings"

	"github.com/pgxplain/xplain/internal/lexicon"
	"github.com/pgxplain/xplain/internal/model"
)

// elemKind tags what a depth-stack entry represents (spec.md §4.3.2).
type elemKind int

const (
	subnode elemKind = iota
	subplan
	initplan
)

// stackElem is one entry of the depth-tracking stack.
type stackElem struct {
	prefixLen int
	kind      elemKind
	node      *model.Node // the node itself (subnode) or its owner (subplan/initplan)
	name      string      // marker text, only meaningful for subplan/initplan
}

// parser holds the mutable state threaded through a single Parse call.
type parser struct {
	stack   []stackElem
	content *model.Content
}

// Parse builds a plan tree from raw EXPLAIN (ANALYZE) text, already
// known not to be JSON. It fails with a *model.ParseError if no root
// node is ever found (spec.md §4.3.6).
func Parse(source string) (*model.Content, error) {
	p := &parser{content: &model.Content{}}
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	for _, line := range lines {
		p.parseLine(stripQuotes(line))
	}
	if p.content.Plan == nil {
		return nil, model.NewParseError("Unable to parse plan")
	}
	return p.content, nil
}

// stripQuotes removes one leading and one trailing straight double
// quote, a psql CSV-export artifact (spec.md §4.3.1).
func stripQuotes(line string) string {
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		return line[1 : len(line)-1]
	}
	return line
}

func prefixLen(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// pop discards every stack entry whose prefix_length >= n (spec.md
// §4.3.2's "pop while top >= mine" shrink rule).
func (p *parser) pop(n int) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].prefixLen >= n {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) top() *stackElem {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *parser) parseLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	if m := lexicon.Match(lexicon.NodeLine, line); m != nil {
		p.handleNode(line, m)
		return
	}
	if m := lexicon.Match(lexicon.SubInitPlanMarker, line); m != nil {
		p.handleSubInitMarker(line, m)
		return
	}
	if m := lexicon.Match(lexicon.CTEMarker, line); m != nil {
		p.handleCTEMarker(line, m)
		return
	}
	if m := lexicon.Match(lexicon.WorkerLine, line); m != nil {
		p.handleWorker(m)
		return
	}
	if m := lexicon.Match(lexicon.TriggerLine, line); m != nil {
		p.handleTrigger(m)
		return
	}
	if m := lexicon.Match(lexicon.ExtraLine, line); m != nil {
		p.handleExtra(m)
		return
	}
	// No pattern matched: silent skip (spec.md §7).
}

func (p *parser) handleNode(line string, m map[string]string) {
	n := prefixLen(line)
	p.pop(n)

	node := buildNode(m)

	if parent := p.top(); parent != nil {
		switch parent.kind {
		case subplan:
			node.ParentRelationship = "SubPlan"
			node.SubplanName = parent.name
		case initplan:
			node.ParentRelationship = "InitPlan"
			node.SubplanName = parent.name
		}
	}

	if p.content.Plan == nil {
		p.content.Plan = node
	} else if parent := p.parentNode(); parent != nil {
		parent.Plans = append(parent.Plans, node)
	}

	p.stack = append(p.stack, stackElem{prefixLen: n, kind: subnode, node: node})
}

// parentNode returns the real owning node for attaching a new child: the
// subnode at the top of the stack, or the owner a subplan/initplan
// marker already resolved at push time (Open Question (a)).
func (p *parser) parentNode() *model.Node {
	if t := p.top(); t != nil {
		return t.node
	}
	return nil
}

func buildNode(m map[string]string) *model.Node {
	node := &model.Node{
		NodeType:    strings.TrimSpace(m["type"]),
		StartupCost: mustFloat(m["startup"]),
		PlanRows:    mustFloat(m["planrows"]),
		PlanWidth:   mustFloat(m["planwidth"]),
	}
	total := mustFloat(m["total"])
	node.TotalCost = &total

	switch {
	case m["never"] != "":
		zero := 0.0
		node.ActualStartupTime = &zero
		node.ActualTotalTime = &zero
		node.ActualRows = 0
		node.ActualLoops = 0
	case m["atstart"] != "":
		start := mustFloat(m["atstart"])
		end := mustFloat(m["atend"])
		node.ActualStartupTime = &start
		node.ActualTotalTime = &end
		node.ActualRows = mustFloat(m["arows"])
		node.ActualLoops = mustFloat(m["aloops"])
	case m["arows2"] != "":
		node.ActualRows = mustFloat(m["arows2"])
		node.ActualLoops = mustFloat(m["aloops2"])
	}
	return node
}

func (p *parser) handleSubInitMarker(line string, m map[string]string) {
	n := len(m["indent"])
	p.pop(n)
	kind := subplan
	if m["kind"] == "InitPlan" {
		kind = initplan
	}
	owner := p.parentNode()
	p.stack = append(p.stack, stackElem{
		prefixLen: n,
		kind:      kind,
		node:      owner,
		name:      strings.TrimSpace(line),
	})
}

func (p *parser) handleCTEMarker(line string, m map[string]string) {
	n := len(m["indent"])
	p.pop(n)
	owner := p.parentNode()
	p.stack = append(p.stack, stackElem{
		prefixLen: n,
		kind:      initplan,
		node:      owner,
		name:      "CTE " + m["name"],
	})
}

func (p *parser) handleWorker(m map[string]string) {
	target := p.parentNode()
	if target == nil {
		return
	}
	num, _ := strconv.ParseInt(m["num"], 10, 64)

	var w *model.Worker
	for _, existing := range target.Workers {
		if existing.Number == num {
			w = existing
			break
		}
	}
	if w == nil {
		w = &model.Worker{Number: num}
		target.Workers = append(target.Workers, w)
	}

	switch {
	case m["never"] != "":
		zero := 0.0
		w.ActualStartupTime = &zero
		w.ActualTotalTime = &zero
		w.ActualRows = 0
		w.ActualLoops = 0
	case m["atstart"] != "":
		start := mustFloat(m["atstart"])
		end := mustFloat(m["atend"])
		w.ActualStartupTime = &start
		w.ActualTotalTime = &end
		w.ActualRows = mustFloat(m["arows"])
		w.ActualLoops = mustFloat(m["aloops"])
	case m["arows2"] != "":
		w.ActualRows = mustFloat(m["arows2"])
		w.ActualLoops = mustFloat(m["aloops2"])
	}

	extra := strings.TrimSpace(m["extra"])
	if extra == "" {
		return
	}
	if applySortAnnotation(extra, w) {
		return
	}
	label, value, ok := splitLabelValue(extra)
	if ok {
		w.SetExtra(model.TitleCase(label), value)
	}
}

func (p *parser) handleTrigger(m map[string]string) {
	p.content.Triggers = append(p.content.Triggers, &model.Trigger{
		Name:  strings.TrimSpace(m["name"]),
		Time:  mustFloat(m["time"]),
		Calls: m["calls"],
	})
}

// attrSink is implemented by *model.Node and *model.Worker, giving the
// extra-line and worker-line handlers a single function to target
// either kind of node.
type attrSink interface {
	SetExtra(key string, value any)
	SetSort(method, spaceType string, spaceUsedKB int64)
}

func (p *parser) handleExtra(m map[string]string) {
	n := len(m["indent"])
	p.pop(n)

	var target attrSink
	if top := p.top(); top != nil {
		target = top.node
	} else if p.content.Plan != nil {
		target = p.content.Plan
	} else {
		return
	}

	rest := strings.TrimSpace(m["rest"])
	if applySortAnnotation(rest, target) {
		return
	}
	if applyBuffersAnnotation(rest, target) {
		return
	}

	label, value, ok := splitLabelValue(rest)
	if !ok {
		return
	}
	value = strings.TrimSuffix(value, " ms")
	key := model.TitleCase(label)
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		target.SetExtra(key, f)
	} else {
		target.SetExtra(key, value)
	}
}

func applySortAnnotation(line string, target attrSink) bool {
	m := lexicon.Match(lexicon.SortAnnotation, line)
	if m == nil {
		return false
	}
	kb, _ := strconv.ParseInt(m["kb"], 10, 64)
	target.SetSort(strings.TrimSpace(m["method"]), m["type"], kb)
	return true
}

func applyBuffersAnnotation(line string, target attrSink) bool {
	node, ok := target.(*model.Node)
	if !ok {
		return false
	}
	m := lexicon.Match(lexicon.BuffersAnnotation, line)
	if m == nil {
		return false
	}
	for _, segment := range strings.Split(m["rest"], ", ") {
		sm := lexicon.Match(lexicon.BuffersSegment, strings.TrimSpace(segment))
		if sm == nil {
			continue
		}
		for _, pair := range strings.Fields(sm["pairs"]) {
			pm := lexicon.Match(lexicon.BuffersPair, pair)
			if pm == nil {
				continue
			}
			count, _ := strconv.ParseInt(pm["count"], 10, 64)
			node.SetBuffer(sm["kind"], pm["method"], count)
		}
	}
	return true
}

// splitLabelValue splits s on the first ": " into (label, value). Both
// sides must be non-empty for a valid split (spec.md §4.3.3/§4.3.5).
func splitLabelValue(s string) (label, value string, ok bool) {
	idx := strings.Index(s, ": ")
	if idx < 0 {
		return "", "", false
	}
	label = s[:idx]
	value = s[idx+2:]
	if label == "" || value == "" {
		return "", "", false
	}
	return label, value, true
}

func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
