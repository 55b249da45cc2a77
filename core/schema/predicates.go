package schema

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// BuiltinPredicates returns the standard constraint predicates: the string
// length, format, and emptiness checks the validation layer enforces on
// scalar fields.
//
// Parameter conventions: minLength/maxLength take a numeric bound counted in
// characters, not bytes; pattern takes a regular expression string. Patterns are compiled per call; record
// definitions are small enough that caching has not been worth it.
func BuiltinPredicates() FunctionMap {
	return FunctionMap{
		"minLength": func(p PredicateParams) bool {
			s, ok := p.Data.(string)
			if !ok {
				return false
			}
			n, ok := toInt(p.Args)
			return ok && utf8.RuneCountInString(s) >= n
		},
		"maxLength": func(p PredicateParams) bool {
			s, ok := p.Data.(string)
			if !ok {
				return false
			}
			n, ok := toInt(p.Args)
			return ok && utf8.RuneCountInString(s) <= n
		},
		"pattern": func(p PredicateParams) bool {
			s, ok := p.Data.(string)
			if !ok {
				return false
			}
			expr, ok := p.Args.(string)
			if !ok {
				return false
			}
			re, err := regexp.Compile(expr)
			return err == nil && re.MatchString(s)
		},
		"nonEmpty": func(p PredicateParams) bool {
			s, ok := p.Data.(string)
			return ok && strings.TrimSpace(s) != ""
		},
		"alphanumeric": func(p PredicateParams) bool {
			s, ok := p.Data.(string)
			if !ok || s == "" {
				return false
			}
			for _, r := range s {
				if !isAlnum(r) {
					return false
				}
			}
			return true
		},
	}
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
