package bus

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
)

// Bus carries change events between processes. Every Bus is an
// aggregates.Publisher so repositories can write to it directly.
type Bus interface {
	Publish(ctx context.Context, evt aggregates.ChangeEvent) error
	StartForwarder(ctx context.Context, onEvt func(evt aggregates.ChangeEvent)) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, aggregates.ChangeEvent) error { return nil }

func (Noop) StartForwarder(context.Context, func(aggregates.ChangeEvent)) error { return nil }

func (Noop) Close() error { return nil }
