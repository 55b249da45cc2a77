package transform

import "reflect"

// FieldBinding pairs an output field name with an optional expression and an
// optional declared default. A nil Expression means the field is driven by
// payload and default alone; a nil Default means no default is declared.
type FieldBinding struct {
	Field      string
	Expression *Expression
	Default    any
}

// TransformResult maps field names to computed values for one document.
// Fields that resolved to no meaningful value and had neither a payload
// value nor a default are simply absent, never present with a nil value.
type TransformResult map[string]any

// Meaningful reports whether a computed value is substantial enough to bind:
// nil, the empty string, and empty lists and maps do not count. Everything
// else does, including false and zero.
func Meaningful(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	}
	return true
}
