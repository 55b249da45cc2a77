package transform

import (
	"sync"

	"go.uber.org/zap"
)

// OperatorFunc is a pure function over already-evaluated argument values. It
// must be free of side effects and may yield nil. Returning an
// *EvaluationError signals an out-of-domain argument for the current
// document.
type OperatorFunc func(args []any) (any, error)

// Operator pairs an implementation with its declared argument count.
// Variadic operators accept any number of arguments; for the rest the
// compiler enforces Arity exactly.
type Operator struct {
	Fn       OperatorFunc
	Arity    int
	Variadic bool
	// Doc states the operator's null-handling policy. Null behavior is
	// operator-specific, not engine-wide, so every operator documents its own.
	Doc string
}

// Registry is the single explicit operator table consulted by the evaluator.
// There is no ambient or global dispatch: a registry is constructed once,
// populated before the first evaluation, and then shared read-only.
type Registry struct {
	operators map[string]Operator
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewRegistry creates an empty operator registry. A nil logger falls back to
// a no-op logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		operators: make(map[string]Operator),
		logger:    logger,
	}
}

// Register adds or replaces a named operator.
func (r *Registry) Register(name string, op Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[name] = op
	r.logger.Info("Registered operator", zap.String("name", name), zap.Int("arity", op.Arity), zap.Bool("variadic", op.Variadic))
}

// RegisterAll adds multiple operators from a map.
func (r *Registry) RegisterAll(ops map[string]Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, op := range ops {
		r.operators[name] = op
		r.logger.Info("Registered operator", zap.String("name", name), zap.Int("arity", op.Arity), zap.Bool("variadic", op.Variadic))
	}
}

// Lookup returns the operator registered under a name.
func (r *Registry) Lookup(name string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[name]
	return op, ok
}
