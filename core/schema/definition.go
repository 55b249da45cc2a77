// Package schema provides the scalar validation subsystem consumed after
// record assembly: type checking with coercion, constraint predicates,
// enumerations, and required-field enforcement, reported as one aggregated
// issue list per record.
package schema

// FieldType represents the scalar and container types a field may declare.
type FieldType string

const (
	FieldTypeString  FieldType = "string"  // Text data
	FieldTypeNumber  FieldType = "number"  // Numeric data
	FieldTypeInteger FieldType = "integer" // Whole numeric data
	FieldTypeBoolean FieldType = "boolean" // True/false values
	FieldTypeArray   FieldType = "array"   // Ordered list of items
	FieldTypeEnum    FieldType = "enum"    // One out of a set of pre-defined values
	FieldTypeRecord  FieldType = "record"  // Key-value object, resolves to map[string]any
)

// PredicateParams carries the inputs to a constraint predicate.
type PredicateParams struct {
	Data any
	Args any
}

// Predicate is a constraint check over one field value. Predicates are pure;
// a false return marks the constraint as violated.
type Predicate func(params PredicateParams) bool

// FunctionMap names the predicate functions available to constraints.
type FunctionMap map[string]Predicate

// Constraint applies a named predicate to a field's value.
type Constraint struct {
	Name         string `json:"name"`
	Predicate    string `json:"predicate"`
	Parameters   any    `json:"parameters,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// FieldDefinition describes one output field: its type, whether it must be
// present, its constraints, and the value domain for enums.
type FieldDefinition struct {
	Name        string       `json:"name"`
	Type        FieldType    `json:"type"`
	Required    bool         `json:"required,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Values      []any        `json:"values,omitempty"`
	ItemsType   *FieldType   `json:"itemsType,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Definition is a complete record schema: the set of fields a transform
// result is checked against.
type Definition struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitempty"`
	Fields      map[string]*FieldDefinition `json:"fields"`
}

// Issue represents one validation problem, indexed by field path.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// ValidationResult aggregates every issue found for one record. Validation
// never stops at the first failure.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}
