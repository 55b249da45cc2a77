package transform

import (
	"github.com/asaidimu/go-reshape/core/document"
	"go.uber.org/zap"
)

// Compile validates an expression tree against the registry: every Call must
// name a registered operator with a matching argument count, and every Query
// must carry well-formed path syntax. Compilation mutates only the
// expression's internal compiled-path cache; after a successful Compile the
// tree is immutable and safe for concurrent evaluation.
func (r *Registry) Compile(e *Expression) error {
	if e == nil {
		return &BuildError{Reason: "expression is nil"}
	}
	if e.buildErr != nil {
		return e.buildErr
	}
	switch e.kind {
	case kindLiteral:
		return nil
	case kindQuery:
		q, err := document.CompilePath(e.rawPath)
		if err != nil {
			return &BuildError{Reason: "malformed path query", Err: err}
		}
		e.query = q
		return nil
	case kindCall:
		op, ok := r.Lookup(e.op)
		if !ok {
			return &BuildError{Op: e.op, Reason: "unknown operator"}
		}
		if !op.Variadic && len(e.args) != op.Arity {
			return &BuildError{Op: e.op, Reason: "wrong argument count"}
		}
		for _, arg := range e.args {
			if err := r.Compile(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return &BuildError{Reason: "unrecognized expression kind"}
}

// Evaluator walks compiled expressions against single documents. It holds no
// per-evaluation state, so one evaluator may serve many goroutines, one
// document per evaluation.
type Evaluator struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEvaluator creates an evaluator bound to an operator registry. A nil
// logger falls back to a no-op logger.
func NewEvaluator(registry *Registry, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{registry: registry, logger: logger}
}

// Evaluate produces a single value from a compiled expression and one
// document. Evaluation is depth-first and left to right: a Call evaluates
// each argument expression in order, then invokes the operator with the
// resulting values. A Query nested anywhere in the tree resolves against the
// original document root, never against a sibling's partial result; only
// explicit Call composition chains values.
func (ev *Evaluator) Evaluate(e *Expression, doc document.Document) (any, error) {
	switch e.kind {
	case kindLiteral:
		return e.literal, nil
	case kindQuery:
		if e.query == nil {
			return nil, &BuildError{Reason: "expression evaluated before compilation"}
		}
		return e.query.Resolve(doc), nil
	case kindCall:
		op, ok := ev.registry.Lookup(e.op)
		if !ok {
			return nil, &BuildError{Op: e.op, Reason: "unknown operator"}
		}
		args := make([]any, len(e.args))
		for i, argExpr := range e.args {
			v, err := ev.Evaluate(argExpr, doc)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return op.Fn(args)
	}
	return nil, &BuildError{Reason: "unrecognized expression kind"}
}
