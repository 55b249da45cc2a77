package transform

import (
	"github.com/asaidimu/go-reshape/core/document"
	"github.com/asaidimu/go-reshape/core/schema"
	"go.uber.org/zap"
)

// Assembler drives a set of field bindings against single documents. It is
// stateless between calls: expressions and the registry are immutable after
// construction, so one assembler may process many documents concurrently.
type Assembler struct {
	registry  *Registry
	evaluator *Evaluator
	logger    *zap.Logger
}

// NewAssembler creates an assembler bound to an operator registry. A nil
// logger falls back to a no-op logger.
func NewAssembler(registry *Registry, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		registry:  registry,
		evaluator: NewEvaluator(registry, logger),
		logger:    logger,
	}
}

// CompileBindings validates every bound expression against the registry.
// Any problem fails the whole binding set before a single document is
// processed.
func (a *Assembler) CompileBindings(bindings []FieldBinding) error {
	for _, b := range bindings {
		if b.Expression == nil {
			continue
		}
		if err := a.registry.Compile(b.Expression); err != nil {
			return err
		}
	}
	return nil
}

// Assemble applies every binding independently to one document and collects
// the resulting mapping. Binding order never affects the outcome: no binding
// can observe another binding's output.
//
// Per binding the precedence is, stopping at the first satisfied branch:
//
//  1. evaluate the bound expression, if any;
//  2. a meaningful result wins, even over a raw payload value the caller
//     explicitly supplied under the same field name;
//  3. otherwise a raw payload value under the field name is used;
//  4. otherwise the declared default, if any;
//  5. otherwise the field stays absent; whether absence is acceptable is
//     the validation subsystem's call, not the assembler's.
func (a *Assembler) Assemble(doc document.Document, bindings []FieldBinding) TransformResult {
	result := make(TransformResult, len(bindings))
	for _, b := range bindings {
		if v, ok := a.resolveBinding(doc, b); ok {
			result[b.Field] = v
		}
	}
	return result
}

// resolveBinding applies the field precedence for one binding.
func (a *Assembler) resolveBinding(doc document.Document, b FieldBinding) (any, bool) {
	if b.Expression != nil {
		computed, err := a.evaluator.Evaluate(b.Expression, doc)
		if err != nil {
			// An out-of-domain value degrades this one field to "no value";
			// the remaining branches still apply and other fields are
			// untouched.
			a.logger.Debug("Field expression degraded",
				zap.String("field", b.Field),
				zap.Error(err))
		} else if Meaningful(computed) {
			return computed, true
		}
	}

	if raw, ok := doc.Value(b.Field); ok && raw != nil {
		return raw, true
	}

	if b.Default != nil {
		return b.Default, true
	}

	return nil, false
}

// AssembleValidated assembles a document and hands the result to the scalar
// validation subsystem. Validation never short-circuits: the returned result
// carries every issue found across all fields.
func (a *Assembler) AssembleValidated(
	doc document.Document,
	bindings []FieldBinding,
	def *schema.Definition,
	fmap schema.FunctionMap,
) (TransformResult, *schema.ValidationResult) {
	result := a.Assemble(doc, bindings)
	validator := schema.NewValidator(def, fmap)
	valid, issues := validator.Validate(result)
	return result, &schema.ValidationResult{Valid: valid, Issues: issues}
}
