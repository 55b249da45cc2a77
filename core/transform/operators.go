package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Names of the built-in operators installed by DefaultRegistry.
const (
	OpCapitalize    = "CAPITALIZE"
	OpSubstr        = "SUBSTR"
	OpJoinParts     = "JOIN_PARTS"
	OpCodeLookupAll = "CODE_LOOKUP_ALL"
	OpFormatDate    = "FORMAT_DATE"
)

// Identifier layout for CODE_LOOKUP_ALL: a leading two-character code, a
// ten-character payload, and the minimum total width an identifier must
// reach to be considered at all.
const (
	codeWidth          = 2
	payloadWidth       = 10
	minIdentifierWidth = codeWidth + payloadWidth
)

// dateLayouts accepted by FORMAT_DATE, tried in order.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

const formattedDateLayout = "02-Jan-2006"

// DefaultRegistry builds a registry populated with the built-in operators,
// binding the code-lookup operator to the given table. The table must be
// fully loaded before the registry is handed to an evaluator.
func DefaultRegistry(table *LookupTable, logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.RegisterAll(BuiltinOperators(table))
	return r
}

// BuiltinOperators returns the standard operator set. Null handling is
// documented per operator; the engine imposes no blanket null policy.
func BuiltinOperators(table *LookupTable) map[string]Operator {
	return map[string]Operator{
		OpCapitalize: {
			Fn:    opCapitalize,
			Arity: 1,
			Doc:   "uppercase first rune, lowercase the rest; null propagates to null",
		},
		OpSubstr: {
			Fn:    opSubstr,
			Arity: 3,
			Doc:   "SUBSTR(start, length, v): window clamped to the available runes; null v propagates to null",
		},
		OpJoinParts: {
			Fn:       opJoinParts,
			Variadic: true,
			Doc:      "concatenates all parts in order; a null part contributes an empty string, never a failure",
		},
		OpCodeLookupAll: {
			Fn:    makeCodeLookupAll(table),
			Arity: 1,
			Doc:   "splits each fixed-width identifier into code and payload, naming the code from the lookup table; null propagates to null",
		},
		OpFormatDate: {
			Fn:    opFormatDate,
			Arity: 1,
			Doc:   "reformats an ISO timestamp to DD-Mon-YYYY; null propagates to null",
		},
	}
}

func opCapitalize(args []any) (any, error) {
	v := args[0]
	if v == nil {
		return nil, nil
	}
	s, err := stringify(OpCapitalize, v)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return "", nil
	}
	// The first letter may be multi-byte; slice by rune, not by byte.
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:]), nil
}

func opSubstr(args []any) (any, error) {
	start, err := toIndex(OpSubstr, "start", args[0])
	if err != nil {
		return nil, err
	}
	length, err := toIndex(OpSubstr, "length", args[1])
	if err != nil {
		return nil, err
	}
	v := args[2]
	if v == nil {
		return nil, nil
	}
	s, err := stringify(OpSubstr, v)
	if err != nil {
		return nil, err
	}

	// Clamp the window to whatever overlap exists; a short input yields the
	// available runes, possibly none, never an error.
	runes := []rune(s)
	if start >= len(runes) {
		return "", nil
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end]), nil
}

func opJoinParts(args []any) (any, error) {
	var b strings.Builder
	for _, part := range args {
		if part == nil {
			continue
		}
		s, err := stringify(OpJoinParts, part)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// makeCodeLookupAll binds the operator to a loaded lookup table. For every
// record whose identifier reaches the minimum width, the identifier splits
// into a leading code and a trailing payload; the code resolves through the
// table, with unknown codes yielding an empty name. Records that are not
// maps, carry no string identifier, or fall short of the minimum width are
// silently skipped.
func makeCodeLookupAll(table *LookupTable) OperatorFunc {
	return func(args []any) (any, error) {
		v := args[0]
		if v == nil {
			return nil, nil
		}
		records, ok := v.([]any)
		if !ok {
			return nil, evalErrorf(OpCodeLookupAll, "expected a list of records, got %T", v)
		}
		// A resolver that matched a single list value wraps it one level
		// deep; unwrap exactly once before iterating.
		if len(records) == 1 {
			if inner, ok := records[0].([]any); ok {
				records = inner
			}
		}

		out := make([]any, 0, len(records))
		for _, rec := range records {
			m, ok := rec.(map[string]any)
			if !ok {
				continue
			}
			id, ok := m["id"].(string)
			if !ok || len(id) < minIdentifierWidth {
				continue
			}
			out = append(out, map[string]any{
				"id":      id,
				"payload": id[codeWidth : codeWidth+payloadWidth],
				"name":    table.Name(id[:codeWidth]),
			})
		}
		return out, nil
	}
}

func opFormatDate(args []any) (any, error) {
	v := args[0]
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, evalErrorf(OpFormatDate, "expected a timestamp string, got %T", v)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(formattedDateLayout), nil
		}
	}
	return nil, evalErrorf(OpFormatDate, "unparsable timestamp %q", s)
}

// stringify renders a scalar as a string. Lists and maps are outside every
// string operator's domain and degrade the field via EvaluationError.
func stringify(op string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		return strconv.FormatBool(s), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case []any, map[string]any:
		return "", evalErrorf(op, "expected a scalar, got %T", v)
	default:
		return fmt.Sprintf("%v", s), nil
	}
}

// toIndex converts a numeric argument to a non-negative int.
func toIndex(op, name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, evalErrorf(op, "%s must be non-negative, got %d", name, n)
		}
		return n, nil
	case int64:
		if n < 0 {
			return 0, evalErrorf(op, "%s must be non-negative, got %d", name, n)
		}
		return int(n), nil
	case float64:
		i := int(n)
		if float64(i) != n || i < 0 {
			return 0, evalErrorf(op, "%s must be a non-negative integer, got %v", name, n)
		}
		return i, nil
	default:
		return 0, evalErrorf(op, "%s must be an integer, got %T", name, v)
	}
}
