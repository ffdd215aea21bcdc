package aggregates

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

// Repository implements the create/read/query/update/delete protocol and the
// relation endpoints for one collection, enforcing reference existence by hand
// on top of a schemaless store.
type Repository struct {
	schema   Schema
	store    docstore.Store
	checker  Checker
	resolver Resolver
	log      *logger.Logger
	hooks    Hooks
	events   Publisher
	tracer   trace.Tracer
	now      func() time.Time

	defaultItemsPerPage int
	maxCASAttempts      int
}

var _ ExistenceChecker = (*Repository)(nil)

func New(schema Schema, deps Deps) *Repository {
	deps = deps.withDefaults()
	return &Repository{
		schema:              schema,
		store:               deps.Store,
		checker:             NewChecker(deps.Store, schema.Collection),
		resolver:            NewResolver(deps.Catalog),
		log:                 deps.Log.With("collection", schema.Collection),
		hooks:               deps.Hooks,
		events:              deps.Events,
		tracer:              deps.Tracer,
		now:                 deps.Now,
		defaultItemsPerPage: deps.DefaultItemsPerPage,
		maxCASAttempts:      deps.MaxCASAttempts,
	}
}

func (r *Repository) Schema() Schema { return r.schema }

func (r *Repository) Collection() string { return r.schema.Collection }

// Exists reports whether id names a live aggregate. A malformed id simply
// does not exist.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	op := "exists"
	var exists bool
	err := r.observe(ctx, op, func(ctx context.Context) error {
		if validateID(op, id) != nil {
			return nil
		}
		n, err := r.store.Count(ctx, r.schema.Collection, docstore.Filter{docstore.FieldID: id})
		if err != nil {
			return mapStoreError(op, err)
		}
		exists = n > 0
		return nil
	})
	return exists, err
}

// AllExist is the batch existence check for this collection.
func (r *Repository) AllExist(ctx context.Context, ids []string) (bool, error) {
	var ok bool
	err := r.observe(ctx, "allExist", func(ctx context.Context) error {
		var err error
		ok, err = r.checker.AllExist(ctx, ids)
		return err
	})
	return ok, err
}

// Create resolves every relation, stamps timestamps, validates, persists and
// returns the aggregate exactly as GetByID would.
func (r *Repository) Create(ctx context.Context, input docstore.Document) (docstore.Document, error) {
	op := "create"
	var out docstore.Document
	err := r.observe(ctx, op, func(ctx context.Context) error {
		record := make(docstore.Document, len(input)+2)
		for k, v := range input {
			if isImmutableField(k) || docstore.IsInternalField(k) {
				return domainagg.InvalidOperation(op, "field %q is assigned by the store", k)
			}
			record[k] = v
		}
		if err := r.resolveRelations(ctx, op, record); err != nil {
			return err
		}
		for _, rel := range r.schema.Relations {
			if rel.Many && record[rel.Name] == nil {
				record[rel.Name] = []string{}
			}
		}

		now := r.now().UTC()
		record[FieldCreatedAt] = now
		record[FieldUpdatedAt] = now

		if err := r.schema.validateRecord(record); err != nil {
			return passValidatorError(op, err)
		}

		id, err := r.store.InsertOne(ctx, r.schema.Collection, record)
		if err != nil {
			return mapStoreError(op, err)
		}
		if id == "" {
			return domainagg.Unexpected(op, "store accepted %s without assigning an id", r.schema.Collection)
		}
		r.publish(ctx, ActionCreated, id)

		out, err = r.read(ctx, op, id)
		return err
	})
	return out, err
}

// GetByID returns the sanitized aggregate with direct relations populated.
func (r *Repository) GetByID(ctx context.Context, id string) (docstore.Document, error) {
	op := "getById"
	var out docstore.Document
	err := r.observe(ctx, op, func(ctx context.Context) error {
		if err := validateID(op, id); err != nil {
			return err
		}
		var err error
		out, err = r.read(ctx, op, id)
		return err
	})
	return out, err
}

// Query returns one page of matching aggregates. No match at all is
// aggregate_not_found; a page past the end is argument_error.
// itemsPerPage 0 selects the configured default.
func (r *Repository) Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*Page, error) {
	op := "query"
	var out *Page
	err := r.observe(ctx, op, func(ctx context.Context) error {
		if itemsPerPage == 0 {
			itemsPerPage = r.defaultItemsPerPage
		}
		normalized, err := r.normalizeFilter(op, filter)
		if err != nil {
			return err
		}
		count, err := r.store.Count(ctx, r.schema.Collection, normalized)
		if err != nil {
			return mapStoreError(op, err)
		}
		if count == 0 {
			return domainagg.NotFound(op, r.schema.Collection)
		}
		skip, err := window(op, count, page, itemsPerPage)
		if err != nil {
			return err
		}
		docs, err := r.store.FindMany(ctx, r.schema.Collection, normalized, docstore.FindOptions{
			Skip:  skip,
			Limit: itemsPerPage,
		})
		if err != nil {
			return mapStoreError(op, err)
		}
		results := make([]docstore.Document, 0, len(docs))
		for _, doc := range docs {
			populated, err := r.populateAll(ctx, op, doc)
			if err != nil {
				return err
			}
			results = append(results, Sanitize(populated))
		}
		out = &Page{
			Results:       results,
			NumberOfItems: count,
			Page:          page,
			ItemsPerPage:  itemsPerPage,
		}
		return nil
	})
	return out, err
}

// UpdateByID applies a partial update to one aggregate.
func (r *Repository) UpdateByID(ctx context.Context, id string, patch docstore.Document) (docstore.Document, error) {
	op := "updateById"
	var out docstore.Document
	err := r.observe(ctx, op, func(ctx context.Context) error {
		if err := guardImmutable(op, patch); err != nil {
			return err
		}
		if err := validateID(op, id); err != nil {
			return err
		}
		var err error
		out, err = r.update(ctx, op, id, patch)
		return err
	})
	return out, err
}

// UpdateWithFilter applies a partial update to the first aggregate matching filter.
func (r *Repository) UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (docstore.Document, error) {
	op := "updateWithFilter"
	var out docstore.Document
	err := r.observe(ctx, op, func(ctx context.Context) error {
		if err := guardImmutable(op, patch); err != nil {
			return err
		}
		if len(filter) == 0 {
			return domainagg.ArgumentError(op, "filter must not be empty")
		}
		normalized, err := r.normalizeFilter(op, filter)
		if err != nil {
			return err
		}
		matched, err := r.store.FindMany(ctx, r.schema.Collection, normalized, docstore.FindOptions{
			Projection: []string{docstore.FieldID},
			Limit:      1,
		})
		if err != nil {
			return mapStoreError(op, err)
		}
		if len(matched) == 0 {
			return domainagg.ArgumentError(op, "filter matched no %s", r.schema.Collection)
		}
		out, err = r.update(ctx, op, matched[0].ID(), patch)
		return err
	})
	return out, err
}

// DeleteByID hard-deletes one aggregate.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	op := "deleteById"
	return r.observe(ctx, op, func(ctx context.Context) error {
		if err := validateID(op, id); err != nil {
			return err
		}
		deleted, err := r.store.DeleteOne(ctx, r.schema.Collection, docstore.Filter{docstore.FieldID: id})
		if err != nil {
			return mapStoreError(op, err)
		}
		if deleted == 0 {
			return domainagg.ArgumentError(op, "no %s with id %s", r.schema.Collection, id)
		}
		r.publish(ctx, ActionDeleted, id)
		return nil
	})
}

func (r *Repository) update(ctx context.Context, op, id string, patch docstore.Document) (docstore.Document, error) {
	record := make(docstore.Document, len(patch)+1)
	fields := make([]string, 0, len(patch))
	for k, v := range patch {
		record[k] = v
		fields = append(fields, k)
	}
	if err := r.resolveRelations(ctx, op, record); err != nil {
		return nil, err
	}
	for _, rel := range r.schema.Relations {
		if v, present := record[rel.Name]; rel.Many && present && v == nil {
			record[rel.Name] = []string{}
		}
	}
	if err := r.schema.validatePatch(record); err != nil {
		return nil, passValidatorError(op, err)
	}
	record[FieldUpdatedAt] = r.now().UTC()

	modified, err := r.store.UpdateOne(ctx, r.schema.Collection, docstore.Filter{docstore.FieldID: id}, record)
	if err != nil {
		return nil, mapStoreError(op, err)
	}
	if modified == 0 {
		return nil, domainagg.ArgumentError(op, "no %s with id %s was modified", r.schema.Collection, id)
	}
	r.publish(ctx, ActionUpdated, id, fields...)
	return r.read(ctx, op, id)
}

// resolveRelations replaces every relation value present in doc with its
// canonical id(s). Lookups run in parallel; the first failure cancels the
// rest and is returned as is.
func (r *Repository) resolveRelations(ctx context.Context, op string, doc docstore.Document) error {
	var present []Relation
	for _, rel := range r.schema.Relations {
		if _, ok := doc[rel.Name]; ok {
			present = append(present, rel)
		}
	}
	if len(present) == 0 {
		return nil
	}

	resolved := make([]any, len(present))
	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range present {
		raw := doc[rel.Name]
		g.Go(func() error {
			if rel.Many {
				refs, err := RefsFrom(raw)
				if err != nil {
					return domainagg.ArgumentError(op, "%s: %v", rel.Name, err)
				}
				if len(refs) == 0 {
					resolved[i] = []string{}
					return nil
				}
				ids, err := r.resolver.ResolveAll(gctx, op, rel, refs)
				if err != nil {
					return err
				}
				resolved[i] = ids
				return nil
			}
			ref, err := RefFrom(raw)
			if err != nil {
				return domainagg.ArgumentError(op, "%s: %v", rel.Name, err)
			}
			if ref.IsZero() {
				resolved[i] = nil
				return nil
			}
			id, err := r.resolver.Resolve(gctx, op, rel, ref)
			if err != nil {
				return err
			}
			resolved[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, rel := range present {
		doc[rel.Name] = resolved[i]
	}
	return nil
}

func (r *Repository) read(ctx context.Context, op, id string) (docstore.Document, error) {
	doc, err := r.store.FindByID(ctx, r.schema.Collection, id)
	if err != nil {
		return nil, mapStoreError(op, err)
	}
	if doc == nil {
		return nil, domainagg.NotFound(op, r.schema.Collection, id)
	}
	populated, err := r.populateAll(ctx, op, doc)
	if err != nil {
		return nil, err
	}
	return Sanitize(populated), nil
}

func (r *Repository) populateAll(ctx context.Context, op string, doc docstore.Document) (docstore.Document, error) {
	for _, rel := range r.schema.Relations {
		var err error
		doc, err = r.store.Populate(ctx, doc, docstore.PopulateSpec{
			Field:      rel.Name,
			Collection: rel.Target,
			Many:       rel.Many,
		})
		if err != nil {
			return nil, mapStoreError(op, err)
		}
	}
	return doc, nil
}

// normalizeFilter rejects unknown fields and flattens Ref values to ids.
func (r *Repository) normalizeFilter(op string, filter docstore.Filter) (docstore.Filter, error) {
	out := make(docstore.Filter, len(filter))
	for key, val := range filter {
		if !r.schema.addressable(key) {
			return nil, domainagg.ArgumentError(op, "cannot filter %s by %q", r.schema.Collection, key)
		}
		switch v := val.(type) {
		case Ref:
			out[key] = v.ID()
		case *Ref:
			if v == nil {
				out[key] = nil
			} else {
				out[key] = v.ID()
			}
		default:
			out[key] = val
		}
	}
	if err := out.Validate(); err != nil {
		return nil, domainagg.ArgumentError(op, "%v", err)
	}
	return out, nil
}

func guardImmutable(op string, patch docstore.Document) error {
	for key := range patch {
		if isImmutableField(key) || docstore.IsInternalField(key) {
			return domainagg.InvalidOperation(op, "field %q cannot be updated", key)
		}
	}
	return nil
}
