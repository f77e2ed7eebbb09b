// Package dispatch implements the source dispatcher (component D):
// preprocessing of raw EXPLAIN output followed by routing to either
// the text parser or the streaming JSON merger.
package dispatch

import (
	"context"
	"regexp"
	"strings"

	"github.com/pgxplain/xplain/internal/blockscan"
	"github.com/pgxplain/xplain/internal/jsonmerge"
	"github.com/pgxplain/xplain/internal/model"
	"github.com/pgxplain/xplain/internal/telemetry"
	"github.com/pgxplain/xplain/internal/textplan"
)

var (
	wholeLineQuotes      = regexp.MustCompile(`^(".*"|'.*')$`)
	trailingContinuation = regexp.MustCompile(`\s*\+\s*$`)
)

// FromSource preprocesses source per spec.md §4.1 and routes it to the
// text parser (T) or the JSON merger (J).
func FromSource(source string) (*model.Content, error) {
	content, _, err := FromSourceContext(context.Background(), source)
	return content, err
}

// FromSourceContext is FromSource, spanned with the active tracer and
// also reporting which route ("json" or "text") was chosen, so the CLI
// can log the dispatcher's decision (SPEC_FULL.md §4.7).
func FromSourceContext(ctx context.Context, source string) (*model.Content, string, error) {
	_, span := telemetry.Active().StartSpan(ctx, "xplain.from_source")
	defer span.End()

	preprocessed := preprocess(source)
	if blockscan.HasBlock(preprocessed) {
		content, err := FromJSON(preprocessed)
		return content, "json", err
	}
	content, err := FromText(preprocessed)
	return content, "text", err
}

// FromText parses source as PostgreSQL EXPLAIN (ANALYZE) text.
func FromText(source string) (*model.Content, error) {
	return textplan.Parse(source)
}

// FromJSON parses source as PostgreSQL EXPLAIN (FORMAT JSON) output.
func FromJSON(source string) (*model.Content, error) {
	entry, err := jsonmerge.Parse(source)
	if err != nil {
		return nil, err
	}
	return jsonmerge.ToContent(entry)
}

// preprocess strips pgAdmin3's whole-line wrapping quotes and psql's
// trailing "+" continuation markers (spec.md §4.1, steps 1-2).
func preprocess(source string) string {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if wholeLineQuotes.MatchString(line) {
			line = line[1 : len(line)-1]
		}
		line = trailingContinuation.ReplaceAllString(line, "")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
