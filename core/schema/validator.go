package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Validator checks a transform result against a record definition. It
// aggregates every problem it finds into a field-indexed issue list; a
// single failing field never stops validation of the rest.
type Validator struct {
	def    *Definition
	fmap   FunctionMap
	issues []Issue
}

// NewValidator creates a validator for a record definition and a predicate
// function map. The instance may be reused across validation runs.
func NewValidator(def *Definition, fmap FunctionMap) *Validator {
	return &Validator{
		def:    def,
		fmap:   fmap,
		issues: make([]Issue, 0),
	}
}

// Validate checks a data map against the definition. It returns whether the
// data passed, plus every issue found.
func (v *Validator) Validate(data map[string]any) (bool, []Issue) {
	v.issues = make([]Issue, 0)

	for fieldName, fieldDef := range v.def.Fields {
		value, exists := data[fieldName]

		if !exists {
			if fieldDef.Required {
				v.addIssue("REQUIRED_FIELD_MISSING", fmt.Sprintf("Required field '%s' is missing", fieldName), fieldName)
			}
			continue
		}

		v.validateFieldValue(value, fieldDef, fieldName)
	}

	for dataKey := range data {
		if _, exists := v.def.Fields[dataKey]; !exists {
			v.addIssue("UNEXPECTED_FIELD", fmt.Sprintf("Unexpected field '%s' not defined in schema", dataKey), dataKey)
		}
	}

	return len(v.issues) == 0, v.issues
}

// validateFieldValue validates a single value against its field definition.
func (v *Validator) validateFieldValue(value any, fieldDef *FieldDefinition, path string) {
	coerced, typeValid := v.checkTypeWithCoercion(value, fieldDef, path)
	if !typeValid {
		return
	}
	value = coerced

	for _, c := range fieldDef.Constraints {
		v.validateConstraint(value, c, path)
	}

	if fieldDef.Type == FieldTypeEnum && len(fieldDef.Values) > 0 {
		v.validateEnumValue(value, fieldDef.Values, path)
	}

	if fieldDef.Type == FieldTypeArray && fieldDef.ItemsType != nil {
		v.validateArrayItems(value, fieldDef, path)
	}
}

// checkTypeWithCoercion verifies the value's type, attempting a string
// coercion first for the numeric and boolean types.
func (v *Validator) checkTypeWithCoercion(value any, fieldDef *FieldDefinition, path string) (any, bool) {
	if value == nil {
		if fieldDef.Required {
			v.addIssue("NULL_VALUE", "Field cannot be null", path)
			return nil, false
		}
		return nil, false
	}

	if coerced, ok := coerceValue(value, fieldDef.Type); ok {
		value = coerced
	}

	switch fieldDef.Type {
	case FieldTypeString, FieldTypeEnum:
		if fieldDef.Type == FieldTypeString {
			if _, ok := value.(string); !ok {
				v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected string, got %T", value), path)
				return value, false
			}
		}
	case FieldTypeNumber:
		if !isNumeric(value) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected number, got %T", value), path)
			return value, false
		}
	case FieldTypeInteger:
		if !isInteger(value) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected integer, got %T", value), path)
			return value, false
		}
	case FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected boolean, got %T", value), path)
			return value, false
		}
	case FieldTypeArray:
		if !isArray(value) {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected array, got %T", value), path)
			return value, false
		}
	case FieldTypeRecord:
		if _, ok := value.(map[string]any); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected record, got %T", value), path)
			return value, false
		}
	}
	return value, true
}

// coerceValue converts string representations to the expected scalar type.
// Only exact representations coerce; "12x" never becomes 12.
func coerceValue(value any, expectedType FieldType) (any, bool) {
	str, ok := value.(string)
	if !ok {
		return value, false
	}

	switch expectedType {
	case FieldTypeBoolean:
		switch strings.ToLower(str) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case FieldTypeInteger:
		if intVal, err := strconv.ParseInt(str, 10, 64); err == nil {
			if strconv.FormatInt(intVal, 10) == str {
				return int(intVal), true
			}
		}
	case FieldTypeNumber:
		if floatVal, err := strconv.ParseFloat(str, 64); err == nil {
			return floatVal, true
		}
	}
	return value, false
}

// validateConstraint runs one named predicate against the value.
func (v *Validator) validateConstraint(value any, constraint Constraint, path string) {
	predicate, exists := v.fmap[constraint.Predicate]
	if !exists {
		v.addIssue("MISSING_PREDICATE", fmt.Sprintf("Predicate function '%s' not found", constraint.Predicate), path)
		return
	}

	if !predicate(PredicateParams{Data: value, Args: constraint.Parameters}) {
		message := fmt.Sprintf("Constraint '%s' failed", constraint.Name)
		if constraint.ErrorMessage != "" {
			message = constraint.ErrorMessage
		}
		v.addIssue("CONSTRAINT_VIOLATION", message, path)
	}
}

// validateEnumValue checks membership in the declared value set.
func (v *Validator) validateEnumValue(value any, allowedValues []any, path string) {
	for _, allowed := range allowedValues {
		if reflect.DeepEqual(value, allowed) {
			return
		}
	}
	v.addIssue("ENUM_VIOLATION", fmt.Sprintf("Value must be one of: %v", allowedValues), path)
}

// validateArrayItems type-checks every element of an array field.
func (v *Validator) validateArrayItems(value any, fieldDef *FieldDefinition, path string) {
	items, ok := value.([]any)
	if !ok {
		return
	}
	itemDef := &FieldDefinition{Type: *fieldDef.ItemsType}
	for i, item := range items {
		v.validateFieldValue(item, itemDef, fmt.Sprintf("%s[%d]", path, i))
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func isInteger(value any) bool {
	switch n := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		// JSON decoding yields float64 for every number; whole values count.
		return n == float64(int64(n))
	}
	return false
}

func isArray(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func (v *Validator) addIssue(code, message, path string) {
	v.issues = append(v.issues, Issue{
		Code:     code,
		Message:  message,
		Path:     path,
		Severity: "error",
	})
}
