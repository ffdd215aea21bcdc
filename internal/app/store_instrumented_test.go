package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	"github.com/yungbote/workspace-backend/internal/observability"
)

func TestInstrumentStorePassThrough(t *testing.T) {
	m := observability.NewMetrics(0)
	mem := docstore.NewMemory()
	s := instrumentStore("memory", mem, m)
	ctx := context.Background()

	id, err := s.InsertOne(ctx, "tags", docstore.Document{"name": "a"})
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	doc, err := s.FindByID(ctx, "tags", id)
	if err != nil || doc == nil {
		t.Fatalf("FindByID: doc=%v err=%v", doc, err)
	}
	if _, err := s.Count(ctx, "tags", nil); err != nil {
		t.Fatalf("Count: %v", err)
	}

	doc["name"] = "b"
	if err := s.Save(ctx, "tags", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// doc still carries the version it was read at
	if err := s.Save(ctx, "tags", doc); !errors.Is(err, docstore.ErrVersionConflict) {
		t.Fatalf("stale Save: expected version conflict, got %v", err)
	}

	if mem.Calls(docstore.OpInsertOne) != 1 || mem.Calls(docstore.OpSave) != 2 {
		t.Fatalf("calls should reach the inner store once each")
	}
	checks := []struct {
		op     docstore.Primitive
		status string
		want   float64
	}{
		{docstore.OpInsertOne, "success", 1},
		{docstore.OpFindByID, "success", 1},
		{docstore.OpCount, "success", 1},
		{docstore.OpSave, "success", 1},
		{docstore.OpSave, "conflict", 1},
	}
	for _, c := range checks {
		if got := m.StoreOperations("memory", string(c.op), c.status); got != c.want {
			t.Fatalf("%s/%s: want %v got %v", c.op, c.status, c.want, got)
		}
	}
}

func TestInstrumentStoreWithoutMetricsReturnsInner(t *testing.T) {
	mem := docstore.NewMemory()
	if s := instrumentStore("memory", mem, nil); s != docstore.Store(mem) {
		t.Fatalf("expected the inner store back when metrics are disabled")
	}
}
