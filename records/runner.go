package records

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-reshape/core/document"
	"github.com/asaidimu/go-reshape/core/schema"
	"github.com/asaidimu/go-reshape/core/transform"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunResult is the outcome of transforming one document into one record
// type: the assembled mapping plus the aggregated validation report.
type RunResult struct {
	Record     string                    `json:"record"`
	RunID      string                    `json:"runId"`
	Result     transform.TransformResult `json:"result"`
	Validation *schema.ValidationResult  `json:"validation"`
}

// Runner owns the operator registry, the compiled record types, and the
// event bus. Everything it holds is immutable after NewRunner returns, so a
// single runner may process documents from many goroutines.
type Runner struct {
	registry      *transform.Registry
	assembler     *transform.Assembler
	types         map[string]*RecordType
	fmap          schema.FunctionMap
	logger        *zap.Logger
	bus           *events.TypedEventBus[TransformEvent]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

// NewRunner builds a runner over the default record types, with the built-in
// operators bound to the given lookup table. Every bound expression is
// compiled here; a malformed binding set fails fast, before any document is
// seen.
func NewRunner(table *transform.LookupTable, logger *zap.Logger) (*Runner, error) {
	return NewRunnerWithTypes(table, DefaultRecordTypes(), logger)
}

// NewRunnerWithTypes is like NewRunner but over a caller-supplied record
// set.
func NewRunnerWithTypes(table *transform.LookupTable, types map[string]*RecordType, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bus, err := events.NewTypedEventBus[TransformEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	registry := transform.DefaultRegistry(table, logger)
	assembler := transform.NewAssembler(registry, logger)

	for name, rt := range types {
		if err := assembler.CompileBindings(rt.Bindings); err != nil {
			return nil, fmt.Errorf("record type %q has an invalid binding set: %w", name, err)
		}
	}

	return &Runner{
		registry:      registry,
		assembler:     assembler,
		types:         types,
		fmap:          schema.BuiltinPredicates(),
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}, nil
}

// Registry exposes the runner's operator registry, e.g. for registering
// additional operators before the first document is processed.
func (r *Runner) Registry() *transform.Registry {
	return r.registry
}

// RecordTypes lists the names of the record types this runner drives.
func (r *Runner) RecordTypes() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// Run transforms one document into one record type, emitting start,
// success/failed, and validation events around the work.
func (r *Runner) Run(recordName string, doc document.Document) (*RunResult, error) {
	rt, ok := r.types[recordName]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q", recordName)
	}

	runID := uuid.NewString()
	result := runWithEvents(r, rt, runID, doc)
	return result, nil
}

// RunAll transforms one document into every registered record type, keyed by
// record name. Record types are independent; one record's validation
// failures never block another's.
func (r *Runner) RunAll(doc document.Document) map[string]*RunResult {
	out := make(map[string]*RunResult, len(r.types))
	for name := range r.types {
		result, err := r.Run(name, doc)
		if err != nil {
			// Unreachable for registered names; keep the map total anyway.
			r.logger.Warn("record run skipped", zap.String("record", name), zap.Error(err))
			continue
		}
		out[name] = result
	}
	return out
}

// runWithEvents wraps one assembly in lifecycle events.
func runWithEvents(r *Runner, rt *RecordType, runID string, doc document.Document) *RunResult {
	startTime := time.Now()

	r.emitEvent(createEvent(TransformStart, rt.Name, runID, doc, nil, nil, nil, startTime))

	result, validation := r.assembler.AssembleValidated(doc, rt.Bindings, rt.Schema, r.fmap)

	if !validation.Valid {
		r.emitEvent(createEvent(ValidationFailed, rt.Name, runID, doc, result, nil, validation.Issues, startTime))
		errMsg := fmt.Sprintf("validation failed with %d issue(s)", len(validation.Issues))
		r.emitEvent(createEvent(TransformFailed, rt.Name, runID, nil, result, &errMsg, validation.Issues, startTime))
	} else {
		r.emitEvent(createEvent(ValidationSuccess, rt.Name, runID, nil, result, nil, nil, startTime))
		r.emitEvent(createEvent(TransformSuccess, rt.Name, runID, nil, result, nil, nil, startTime))
	}

	r.logger.Debug("Record assembled",
		zap.String("record", rt.Name),
		zap.String("runId", runID),
		zap.Bool("valid", validation.Valid),
		zap.Int("issues", len(validation.Issues)))

	return &RunResult{
		Record:     rt.Name,
		RunID:      runID,
		Result:     result,
		Validation: validation,
	}
}

func (r *Runner) emitEvent(event TransformEvent) {
	if r.bus != nil {
		r.bus.Emit(string(event.Type), event)
	}
}

// RegisterSubscription registers a callback for one event type and returns
// an ID usable with UnregisterSubscription.
func (r *Runner) RegisterSubscription(options RegisterSubscriptionOptions) string {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	unsubscribe := r.bus.Subscribe(string(options.Event), options.Callback)
	callbackID := uuid.NewString()

	r.subscriptions[callbackID] = &SubscriptionInfo{
		Event:       options.Event,
		Unsubscribe: unsubscribe,
		Label:       options.Label,
		Description: options.Description,
	}
	return callbackID
}

// UnregisterSubscription removes a previously registered subscription.
func (r *Runner) UnregisterSubscription(id string) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	info := r.subscriptions[id]
	if info != nil {
		info.Unsubscribe()
		delete(r.subscriptions, id)
	}
}
