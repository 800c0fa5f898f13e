package domain

import (
	"context"
	"time"
)

// EventType defines the category of an outbound event.
type EventType string

const (
	EventNodesFound     EventType = "nodes-found"
	EventLimitExceeded  EventType = "limit-exceeded"
	EventProgress       EventType = "progress"
	EventNodesConverted EventType = "nodes-converted"
	EventComplete       EventType = "complete"
	EventError          EventType = "error"
)

// Event is an outbound message to whoever drives the run (UI, CLI, HTTP client).
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// NodesFoundPayload carries the number of collected nodes.
type NodesFoundPayload struct {
	Total int `json:"total"`
}

// LimitExceededPayload carries the configured node ceiling.
type LimitExceededPayload struct {
	Limit int `json:"limit"`
}

// MessagePayload carries a human readable message (progress, error).
type MessagePayload struct {
	Message string `json:"message"`
}

// NodesConvertedPayload carries the number of nodes that actually changed.
type NodesConvertedPayload struct {
	Converted int `json:"converted"`
}

// NodesFound reports how many convertible nodes the selection produced.
func NodesFound(total int) Event {
	return Event{Type: EventNodesFound, Payload: NodesFoundPayload{Total: total}}
}

// LimitExceeded reports that the run was refused because of the node ceiling.
func LimitExceeded(limit int) Event {
	return Event{Type: EventLimitExceeded, Payload: LimitExceededPayload{Limit: limit}}
}

// Progress carries a status line for the operator.
func Progress(message string) Event {
	return Event{Type: EventProgress, Payload: MessagePayload{Message: message}}
}

// NodesConverted reports how many nodes actually changed.
func NodesConverted(converted int) Event {
	return Event{Type: EventNodesConverted, Payload: NodesConvertedPayload{Converted: converted}}
}

// Complete marks the successful end of a run.
func Complete() Event {
	return Event{Type: EventComplete}
}

// Failure carries the message of a run that ended in error.
func Failure(message string) Event {
	return Event{Type: EventError, Payload: MessagePayload{Message: message}}
}

// RunEvent describes a run that passed request validation.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Rules     int       `json:"rules"`
	Limit     int       `json:"limit"`
}

// NodeEvent describes the conversion of one node.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	NodeID    string    `json:"node_id"`
	NodeName  string    `json:"node_name"`
	Kind      NodeKind  `json:"kind"`
	Changed   bool      `json:"changed"`
}

// ImportFailureEvent describes a variable key that could not be imported.
type ImportFailureEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Key       string    `json:"key"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart      func(context.Context, *RunEvent)
	OnNodeConverted func(context.Context, *NodeEvent)
	OnImportFailure func(context.Context, *ImportFailureEvent)
	OnRunFinish     func(context.Context, *Outcome)
}
