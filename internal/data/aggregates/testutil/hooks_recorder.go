package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
)

// HooksRecorder captures repository hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

// Statuses returns the recorded statuses of operation name, in order.
func (h *HooksRecorder) Statuses(name string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, op := range h.Operations {
		if op.Name == name {
			out = append(out, op.Status)
		}
	}
	return out
}

// EventsRecorder is a Publisher that keeps every event, optionally failing.
type EventsRecorder struct {
	mu sync.Mutex

	Events []aggregates.ChangeEvent
	Err    error
}

var _ aggregates.Publisher = (*EventsRecorder)(nil)

func (e *EventsRecorder) Publish(_ context.Context, evt aggregates.ChangeEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, evt)
	return e.Err
}

// Actions lists the recorded actions for one aggregate id.
func (e *EventsRecorder) Actions(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, evt := range e.Events {
		if evt.ID == id {
			out = append(out, evt.Action)
		}
	}
	return out
}
