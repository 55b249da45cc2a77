package transform

import "fmt"

// BuildError reports a problem detected while constructing or compiling an
// expression: an unknown operator name, a wrong argument count, or a
// malformed path query. It is always raised before any document is
// processed, failing the whole binding set fast.
type BuildError struct {
	Op     string // operator name, when the problem is operator-related
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("expression build failed for operator %q: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("expression build failed: %s", e.Reason)
}

func (e *BuildError) Unwrap() error { return e.Err }

// EvaluationError reports that an operator received a value outside its
// accepted domain while evaluating one document. It is isolated per field:
// the affected field degrades to "no value" and the binding layer's
// default/absence rules take over, leaving other fields untouched.
type EvaluationError struct {
	Op     string
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("operator %q evaluation failed: %s", e.Op, e.Reason)
}

func evalErrorf(op, format string, args ...any) *EvaluationError {
	return &EvaluationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
