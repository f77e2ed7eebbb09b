// Package lexicon holds the line-shape regular expressions recognized
// by the text plan parser (component T), per spec.md §4.3.1 and
// §4.3.5. Kept as its own leaf package so the pattern shapes are
// reviewable independent of the parsing logic that uses them.
package lexicon

import "regexp"

// NodeLine matches a node line: an optional "->" prefix, the node type
// text, the planner-estimate parenthetical, and an optional actual-stats
// parenthetical in one of its three forms (full timing, rows-only
// timing-off, or "never executed").
var NodeLine = regexp.MustCompile(
	`^(?P<indent>\s*)(?:->\s*)?(?P<type>\S.*?)\s+\(cost=(?P<startup>\d+\.\d+)\.\.(?P<total>\d+\.\d+)\s+rows=(?P<planrows>\d+)\s+width=(?P<planwidth>\d+)\)` +
		`(?:\s+\((?:actual time=(?P<atstart>\d+\.\d+)\.\.(?P<atend>\d+\.\d+)\s+rows=(?P<arows>\d+)\s+loops=(?P<aloops>\d+)` +
		`|actual rows=(?P<arows2>\d+)\s+loops=(?P<aloops2>\d+)` +
		`|(?P<never>never executed))\))?\s*$`,
)

// SubInitPlanMarker matches a "SubPlan"/"InitPlan" marker line.
var SubInitPlanMarker = regexp.MustCompile(
	`^(?P<indent>\s*)(?P<kind>SubPlan|InitPlan)(?:\s+\d+)?\s*(?:\(returns.*\))?\s*$`,
)

// CTEMarker matches a "CTE <name>" marker line.
var CTEMarker = regexp.MustCompile(`^(?P<indent>\s*)CTE\s+(?P<name>\S+)\s*$`)

// WorkerLine matches a "Worker N: ..." line, with an optional actual-
// stats clause (same three forms as NodeLine) followed by free text.
var WorkerLine = regexp.MustCompile(
	`^(?P<indent>\s*)Worker\s+(?P<num>\d+):\s*` +
		`(?:(?:actual time=(?P<atstart>\d+\.\d+)\.\.(?P<atend>\d+\.\d+)\s+rows=(?P<arows>\d+)\s+loops=(?P<aloops>\d+)` +
		`|actual rows=(?P<arows2>\d+)\s+loops=(?P<aloops2>\d+)` +
		`|(?P<never>never executed))\s*)?(?P<extra>.*?)\s*$`,
)

// TriggerLine matches a "Trigger <name>: time=<f> calls=<i>" line.
var TriggerLine = regexp.MustCompile(
	`^(?P<indent>\s*)Trigger\s+(?P<name>.*):\s+time=(?P<time>\d+\.\d+)\s+calls=(?P<calls>\S+)\s*$`,
)

// ExtraLine is the fallback "Label: value"-shaped line; it only
// requires at least one non-space character.
var ExtraLine = regexp.MustCompile(`^(?P<indent>\s*)(?P<rest>\S.*)$`)

// SortAnnotation matches "Sort Method: <method>  <Memory|Disk>: <n>kB".
var SortAnnotation = regexp.MustCompile(
	`^\s*Sort Method:\s+(?P<method>.*)\s+(?P<type>Memory|Disk):\s+(?P<kb>\S*)kB\s*$`,
)

// BuffersAnnotation matches a "Buffers: ..." line; the captured tail is
// further split on ",\s+" and then on "(shared|temp|local)\s+(.*)".
var BuffersAnnotation = regexp.MustCompile(`^\s*Buffers:\s+(?P<rest>.*)\s*$`)

// BuffersSegment matches one "<shared|temp|local> <method=count ...>"
// segment within a Buffers: line, after splitting on ",\s+".
var BuffersSegment = regexp.MustCompile(`^(?P<kind>shared|temp|local)\s+(?P<pairs>.*)$`)

// BuffersPair matches one "method=count" pair within a segment.
var BuffersPair = regexp.MustCompile(`^(?P<method>[a-z]+)=(?P<count>\d+)$`)

// namedGroups extracts named capture groups from a regexp match into a
// map, skipping groups that did not participate in the match.
func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	out := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		out[name] = match[i]
	}
	return out
}

// Match runs re against line and returns the named captures, or nil if
// there was no match.
func Match(re *regexp.Regexp, line string) map[string]string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return namedGroups(re, m)
}
