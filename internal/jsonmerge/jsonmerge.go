// Package jsonmerge implements the streaming JSON merger (component J):
// an event-driven consumer of PostgreSQL's EXPLAIN (FORMAT JSON) output
// that tolerates and deep-merges the duplicate object keys PostgreSQL
// itself emits (notably repeated "Worker" keys), which a conventional
// decode into map[string]any would silently drop.
package jsonmerge

import (
	"encoding/json"
	"strings"

	"github.com/pgxplain/xplain/internal/blockscan"
	"github.com/pgxplain/xplain/internal/model"
)

// Parse trims source to its outermost bracketed block (spec.md §4.2),
// then decodes it with duplicate-key merging. If the root value is a
// sequence, it is unwrapped to its first element. The result is the
// generic entry map ready for node.go to translate into a *model.Content.
func Parse(source string) (map[string]any, error) {
	trimmed := blockscan.Trim(source)
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return nil, model.NewParseError("json plan: %s", err)
	}

	switch v := root.(type) {
	case map[string]any:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, model.NewParseError("json plan: empty root sequence")
		}
		entry, ok := v[0].(map[string]any)
		if !ok {
			return nil, model.NewParseError("json plan: root sequence's first element is not an object")
		}
		return entry, nil
	default:
		return nil, model.NewParseError("json plan: root is neither an object nor a sequence")
	}
}

// parseValue reads one JSON value (object, array, or scalar) from dec.
func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, model.NewParseError("json plan: unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

// parseObject reads key/value pairs until the closing '}', deep-merging
// any key seen more than once (spec.md §4.2) instead of overwriting.
func parseObject(dec *json.Decoder) (map[string]any, error) {
	result := map[string]any{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, model.NewParseError("json plan: non-string object key")
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		if existing, dup := result[key]; dup {
			result[key] = deepMerge(existing, val)
		} else {
			result[key] = val
		}
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return result, nil
}

// parseArray reads elements until the closing ']'.
func parseArray(dec *json.Decoder) ([]any, error) {
	var result []any
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return result, nil
}

// deepMerge implements spec.md §4.2's merge rule: mappings union keys
// (recursing when both sides hold a mapping for the same key),
// sequences concatenate, and otherwise the right-hand value wins.
func deepMerge(existing, incoming any) any {
	switch e := existing.(type) {
	case map[string]any:
		if in, ok := incoming.(map[string]any); ok {
			for k, v := range in {
				if old, dup := e[k]; dup {
					e[k] = deepMerge(old, v)
				} else {
					e[k] = v
				}
			}
			return e
		}
	case []any:
		if in, ok := incoming.([]any); ok {
			return append(e, in...)
		}
	}
	return incoming
}
