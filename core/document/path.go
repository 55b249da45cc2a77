package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PathQuery is a compiled path expression. Compilation happens once, at
// expression build time; a compiled query is immutable and safe to share
// across concurrent resolutions.
//
// Two query forms are supported:
//
//	$.a.b.c    exact dotted path from the root; a numeric segment indexes a list
//	$..name    any-depth search for a key name, optionally followed by an
//	           exact tail applied to every match ($..visa_request.visa_type)
type PathQuery struct {
	raw       string
	recursive bool
	// For exact queries, segments holds the full dotted path. For recursive
	// queries, key is the searched key name and segments holds the tail.
	key      string
	segments []string
}

// CompilePath parses and validates a path expression. Malformed syntax is
// reported here, never at resolution time.
func CompilePath(expr string) (*PathQuery, error) {
	if expr == "" {
		return nil, fmt.Errorf("path query cannot be empty")
	}
	if !strings.HasPrefix(expr, "$") {
		return nil, fmt.Errorf("path query %q must start with '$'", expr)
	}
	if strings.ContainsAny(expr, "[]()?@*") {
		return nil, fmt.Errorf("path query %q contains unsupported syntax", expr)
	}

	rest := expr[1:]
	q := &PathQuery{raw: expr}

	if strings.HasPrefix(rest, "..") {
		q.recursive = true
		rest = rest[2:]
		if rest == "" {
			return nil, fmt.Errorf("recursive path query %q is missing a key name", expr)
		}
		parts, err := splitSegments(expr, rest)
		if err != nil {
			return nil, err
		}
		q.key = parts[0]
		q.segments = parts[1:]
		return q, nil
	}

	if rest == "" {
		// Bare "$" selects the document root.
		return q, nil
	}
	if !strings.HasPrefix(rest, ".") {
		return nil, fmt.Errorf("path query %q: expected '.' or '..' after '$'", expr)
	}
	parts, err := splitSegments(expr, rest[1:])
	if err != nil {
		return nil, err
	}
	q.segments = parts
	return q, nil
}

// MustCompilePath is like CompilePath but panics on malformed input. Intended
// for statically known queries in record definitions.
func MustCompilePath(expr string) *PathQuery {
	q, err := CompilePath(expr)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns the original query expression.
func (q *PathQuery) String() string {
	return q.raw
}

func splitSegments(expr, rest string) ([]string, error) {
	parts := strings.Split(rest, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("path query %q contains an empty segment", expr)
		}
	}
	return parts, nil
}

// Resolve evaluates the query against a document root and collapses the
// match arity: no matches yield nil, a single match yields the matched value
// itself, and multiple matches yield an []any in traversal order. Map keys
// are visited in sorted order so that resolution is deterministic; Go maps
// carry no insertion order of their own.
func (q *PathQuery) Resolve(doc Document) any {
	matches := q.Matches(doc)
	switch len(matches) {
	case 0:
		return nil
	case 1:
		return matches[0]
	default:
		return matches
	}
}

// Matches returns every matched value without collapsing arity.
func (q *PathQuery) Matches(doc Document) []any {
	root := map[string]any(doc)
	if q.recursive {
		var found []any
		collectKey(root, q.key, &found)
		if len(q.segments) == 0 {
			return found
		}
		var out []any
		for _, m := range found {
			if v, ok := navigate(m, q.segments); ok {
				out = append(out, v)
			}
		}
		return out
	}

	if v, ok := navigate(root, q.segments); ok {
		return []any{v}
	}
	return nil
}

// navigate walks an exact segment list from a starting node. A segment that
// parses as a non-negative integer indexes a list; anything else keys a map.
func navigate(node any, segments []string) (any, bool) {
	current := node
	for _, seg := range segments {
		switch n := current.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			current = v
		case Document:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			current = n[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// collectKey performs the any-depth key search. Matched subtrees are not
// descended into again: the value found under a key is reported once.
func collectKey(node any, key string, out *[]any) {
	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == key {
				*out = append(*out, n[k])
				continue
			}
			collectKey(n[k], key, out)
		}
	case Document:
		collectKey(map[string]any(n), key, out)
	case []any:
		for _, item := range n {
			collectKey(item, key, out)
		}
	}
}
