// Package blockscan locates the outermost bracketed block ("[" or "{"
// alone on a line, matched by the same indentation on close) that both
// the source dispatcher (to decide JSON vs. text, spec.md §4.1) and the
// streaming JSON merger (to trim surrounding noise, spec.md §4.2) need
// to find. Factored out as a shared leaf to avoid duplicating the same
// scan in both, and because the dispatcher already depends on the
// merger, so the merger cannot depend back on the dispatcher.
package blockscan

import (
	"regexp"
	"strings"
)

var openLine = regexp.MustCompile(`^(\s*)([\[{])\s*$`)

// Find scans lines for the first line containing only "[" or "{"
// (after indentation), then the first subsequent line containing only
// the matching closing bracket at the same indentation. It returns the
// start and end line indices (inclusive) of the block and whether one
// was found.
func Find(lines []string) (start, end int, ok bool) {
	for i, line := range lines {
		m := openLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		prefix, open := m[1], m[2]
		closeChar := "]"
		if open == "{" {
			closeChar = "}"
		}
		closeLine := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + regexp.QuoteMeta(closeChar) + `\s*$`)
		for j := i + 1; j < len(lines); j++ {
			if closeLine.MatchString(lines[j]) {
				return i, j, true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

// HasBlock reports whether source contains a block Find would locate.
func HasBlock(source string) bool {
	_, _, ok := Find(splitLines(source))
	return ok
}

// Trim returns the substring of source spanning the outermost bracketed
// block Find locates, or source unchanged if none is found.
func Trim(source string) string {
	lines := splitLines(source)
	start, end, ok := Find(lines)
	if !ok {
		return source
	}
	return strings.Join(lines[start:end+1], "\n")
}

func splitLines(source string) []string {
	return strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
}
