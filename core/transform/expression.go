// Package transform implements the declarative expression engine: expressions
// represented as data, a registry of pure operators, a deterministic
// evaluator, and the field-binding precedence used during record assembly.
package transform

import (
	"github.com/asaidimu/go-reshape/core/document"
)

// exprKind tags the Expression union. Evaluation dispatches on the tag, never
// on runtime type probing of argument values.
type exprKind int

const (
	kindLiteral exprKind = iota
	kindQuery
	kindCall
)

// Expression is a computation represented as data: a literal value, a path
// query against the document root, or a call to a named operator over
// argument expressions. Expressions are immutable once compiled and may be
// shared freely across goroutines and evaluations.
type Expression struct {
	kind    exprKind
	literal any
	query   *document.PathQuery
	rawPath string
	op      string
	args    []*Expression

	// buildErr carries a constructor-time problem until Compile surfaces it.
	buildErr error
}

// Literal creates an expression that always yields a fixed value.
func Literal(v any) *Expression {
	return &Expression{kind: kindLiteral, literal: v}
}

// Query creates an expression that resolves a path query against the
// document root. The query string is validated when the expression is
// compiled, not when it is evaluated.
func Query(path string) *Expression {
	return &Expression{kind: kindQuery, rawPath: path}
}

// Call creates an expression invoking a named operator over argument
// expressions. Operator existence and arity are checked at compile time.
func Call(op string, args ...*Expression) *Expression {
	return &Expression{kind: kindCall, op: op, args: args}
}

// Pipeline chains steps left to right: the value produced by each step feeds
// the next step as its final argument. Steps after the first must be Call
// expressions declared with one argument slot left open; Pipeline rewrites
// them into the identical canonical Call tree the nested notation produces,
// so Pipeline(f, g) evaluates exactly as g(f(x)) written directly.
func Pipeline(steps ...*Expression) *Expression {
	if len(steps) == 0 {
		return &Expression{kind: kindLiteral, buildErr: &BuildError{Reason: "pipeline requires at least one step"}}
	}
	acc := steps[0]
	for _, step := range steps[1:] {
		if step.kind != kindCall {
			return &Expression{kind: kindLiteral, buildErr: &BuildError{Reason: "pipeline steps after the first must be operator calls"}}
		}
		args := make([]*Expression, 0, len(step.args)+1)
		args = append(args, step.args...)
		args = append(args, acc)
		acc = &Expression{kind: kindCall, op: step.op, args: args}
	}
	return acc
}

// Operator returns the operator name for Call expressions, or "" otherwise.
func (e *Expression) Operator() string { return e.op }
