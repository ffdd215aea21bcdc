package aggregates

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

const (
	DefaultItemsPerPage   = 10
	DefaultMaxCASAttempts = 5

	tracerName = "github.com/yungbote/workspace-backend/internal/data/aggregates"
)

// Deps are the collaborators shared by every repository in a process.
type Deps struct {
	Store   docstore.Store
	Catalog Catalog
	Log     *logger.Logger
	Hooks   Hooks
	Events  Publisher
	Tracer  trace.Tracer
	Now     func() time.Time

	DefaultItemsPerPage int
	MaxCASAttempts      int
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Events == nil {
		d.Events = noopPublisher{}
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.DefaultItemsPerPage <= 0 {
		d.DefaultItemsPerPage = DefaultItemsPerPage
	}
	if d.MaxCASAttempts <= 0 {
		d.MaxCASAttempts = DefaultMaxCASAttempts
	}
	return d
}

func (r *Repository) opName(op string) string {
	return r.schema.Collection + "." + op
}

// observe runs one public operation inside a span, records its outcome on
// the hooks and logs failures. The error is returned exactly as produced.
func (r *Repository) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	name := r.opName(op)
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("collection", r.schema.Collection),
		attribute.String("op", op),
	))
	defer span.End()

	err := fn(ctx)

	status := "success"
	if err != nil {
		status = errorStatus(err)
		span.SetAttributes(attribute.String("code", status))
		span.SetStatus(codes.Error, err.Error())
		if domainagg.IsCode(err, domainagg.CodeConflict) {
			r.hooks.IncConflict(name)
		}
		r.log.Warn("repository operation failed", "op", op, "code", status, "error", err)
	}
	r.hooks.ObserveOperation(name, status, time.Since(start))
	return err
}

func errorStatus(err error) string {
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}

// publish announces a change. A failing bus is logged, never surfaced.
func (r *Repository) publish(ctx context.Context, action, id string, fields ...string) {
	sort.Strings(fields)
	evt := ChangeEvent{
		Collection: r.schema.Collection,
		ID:         id,
		Action:     action,
		Fields:     fields,
		At:         r.now().UTC(),
	}
	if err := r.events.Publish(ctx, evt); err != nil {
		r.log.Warn("change event publish failed", "action", action, "id", id, "error", err)
		return
	}
	r.log.Debug("change event published", "action", action, "id", id)
}

func validateID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return domainagg.ArgumentError(op, "id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return domainagg.ArgumentError(op, "malformed id %q", id)
	}
	return nil
}

// Named returns a copy of d whose logger carries the repository name.
func (d Deps) Named(repo string) Deps {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	d.Log = d.Log.With("repo", repo)
	return d
}
