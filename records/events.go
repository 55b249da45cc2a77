package records

import (
	"context"
	"time"

	"github.com/asaidimu/go-reshape/core/schema"
)

// TransformEventType identifies a lifecycle event emitted by the runner.
type TransformEventType string

const (
	TransformStart    TransformEventType = "transform:start"
	TransformSuccess  TransformEventType = "transform:success"
	TransformFailed   TransformEventType = "transform:failed"
	ValidationFailed  TransformEventType = "validation:failed"
	ValidationSuccess TransformEventType = "validation:success"
)

// TransformEvent describes one record transformation for observers: which
// record type ran, against which run ID, with what outcome.
type TransformEvent struct {
	Type      TransformEventType `json:"type"`
	Timestamp int64              `json:"timestamp"`
	Record    string             `json:"record"`
	RunID     string             `json:"runId"`
	Input     any                `json:"input,omitempty"`
	Output    any                `json:"output,omitempty"`
	Error     *string            `json:"error,omitempty"`
	Issues    []schema.Issue     `json:"issues,omitempty"`
	Duration  *int64             `json:"duration,omitempty"`
}

// EventCallback is invoked for every event of a subscribed type.
type EventCallback func(ctx context.Context, event TransformEvent) error

// RegisterSubscriptionOptions configures one event subscription.
type RegisterSubscriptionOptions struct {
	Event       TransformEventType
	Label       *string
	Description *string
	Callback    EventCallback
}

// SubscriptionInfo tracks a registered subscription for later removal.
type SubscriptionInfo struct {
	Event       TransformEventType
	Unsubscribe func()
	Label       *string
	Description *string
}

func createEvent(
	eventType TransformEventType,
	record string,
	runID string,
	input any,
	output any,
	err *string,
	issues []schema.Issue,
	startTime time.Time,
) TransformEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}

	return TransformEvent{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Record:    record,
		RunID:     runID,
		Input:     input,
		Output:    output,
		Error:     err,
		Issues:    issues,
		Duration:  duration,
	}
}
