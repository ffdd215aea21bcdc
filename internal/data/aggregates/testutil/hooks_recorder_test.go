package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("tags.create", "success", 10*time.Millisecond)
	h.ObserveOperation("tags.create", "data_validation", time.Millisecond)
	h.IncConflict("tags.addtags")
	h.IncRetry("tags.addtags")

	if len(h.Operations) != 2 {
		t.Fatalf("expected 2 op events, got %d", len(h.Operations))
	}
	statuses := h.Statuses("tags.create")
	if len(statuses) != 2 || statuses[0] != "success" || statuses[1] != "data_validation" {
		t.Fatalf("unexpected statuses: %v", statuses)
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "tags.addtags" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 1 || h.Retries[0] != "tags.addtags" {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}

func TestEventsRecorder_KeepsEventsEvenWhenFailing(t *testing.T) {
	boom := errors.New("bus down")
	e := &EventsRecorder{Err: boom}
	err := e.Publish(context.Background(), aggregates.ChangeEvent{ID: "1", Action: aggregates.ActionCreated})
	if !errors.Is(err, boom) {
		t.Fatalf("expected configured error, got %v", err)
	}
	if got := e.Actions("1"); len(got) != 1 || got[0] != aggregates.ActionCreated {
		t.Fatalf("unexpected actions: %v", got)
	}
}
