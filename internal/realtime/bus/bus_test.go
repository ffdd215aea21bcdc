package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

func TestNoopBus(t *testing.T) {
	var b Bus = Noop{}
	if err := b.Publish(context.Background(), aggregates.ChangeEvent{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.StartForwarder(context.Background(), nil); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if _, ok := Client(b); ok {
		t.Fatalf("noop bus has no redis client")
	}
}

func TestNewRedisBusRequiresAddress(t *testing.T) {
	if _, err := NewRedisBus(logger.NewNop(), RedisConfig{}); err == nil {
		t.Fatalf("expected an error without an address")
	}
	if _, err := NewRedisBus(nil, RedisConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected an error without a logger")
	}
}

// TestRedisBusRoundTrip needs a live redis; set TEST_REDIS_ADDR to run it.
func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	b, err := NewRedisBus(logger.NewNop(), RedisConfig{Addr: addr, Channel: "test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan aggregates.ChangeEvent, 1)
	if err := b.StartForwarder(ctx, func(evt aggregates.ChangeEvent) { got <- evt }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	want := aggregates.ChangeEvent{Collection: "tags", ID: uuid.NewString(), Action: aggregates.ActionCreated, Fields: []string{"name"}}
	if err := b.Publish(ctx, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case evt := <-got:
		if evt.ID != want.ID || evt.Action != want.Action || len(evt.Fields) != 1 {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for forwarded event")
	}
}
