package aggregates

import (
	"context"
	"time"
)

// Hooks captures repository-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// Change actions published after successful writes.
const (
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionDeleted         = "deleted"
	ActionRelationChanged = "relation_changed"
)

// ChangeEvent announces a persisted change to one aggregate.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Fields     []string  `json:"fields,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher fans change events out to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, evt ChangeEvent) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ChangeEvent) error { return nil }
