package aggregates

import (
	"context"
	"errors"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// appendMissing appends every incoming key not already in current, in input
// order. dirty is true when at least one key was added.
func appendMissing[K comparable](current, incoming []K) (out []K, dirty bool) {
	seen := make(map[K]struct{}, len(current)+len(incoming))
	out = make([]K, 0, len(current)+len(incoming))
	for _, k := range current {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range incoming {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		dirty = true
	}
	return out, dirty
}

// removeAll drops every key in removal from current, keeping survivor order.
func removeAll[K comparable](current, removal []K) (out []K, dirty bool) {
	drop := make(map[K]struct{}, len(removal))
	for _, k := range removal {
		drop[k] = struct{}{}
	}
	out = make([]K, 0, len(current))
	for _, k := range current {
		if _, gone := drop[k]; gone {
			dirty = true
			continue
		}
		out = append(out, k)
	}
	return out, dirty
}

// mutation computes the new document state. Returning false skips the write.
type mutation func(doc docstore.Document) (changed bool, err error)

// readModifyWrite loads the aggregate, applies mutate and saves it with a
// version check, retrying from a fresh read when another writer got there
// first. It reports whether a write happened.
func (r *Repository) readModifyWrite(ctx context.Context, op, id string, mutate mutation) (bool, error) {
	attempts := r.maxCASAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		doc, err := r.store.FindByID(ctx, r.schema.Collection, id)
		if err != nil {
			return false, mapStoreError(op, err)
		}
		if doc == nil {
			return false, domainagg.NotFound(op, r.schema.Collection, id)
		}
		changed, err := mutate(doc)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}
		err = r.store.Save(ctx, r.schema.Collection, doc)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, docstore.ErrVersionConflict) {
			return false, mapStoreError(op, err)
		}
		r.hooks.IncRetry(r.opName(op))
		r.log.Debug("relation write lost version race, retrying", "op", op, "id", id, "attempt", attempt)
	}
	return false, domainagg.Conflict(op, "%s %s kept changing underneath %d attempts", r.schema.Collection, id, attempts)
}

func (r *Repository) relationOf(op, name string, many bool) (Relation, error) {
	rel, ok := r.schema.relation(name)
	if !ok {
		return Relation{}, domainagg.ArgumentError(op, "%s has no relation %q", r.schema.Collection, name)
	}
	if rel.Many != many {
		kind := "single"
		if rel.Many {
			kind = "list"
		}
		return Relation{}, domainagg.ArgumentError(op, "relation %q is a %s relation", name, kind)
	}
	return rel, nil
}

// AddOne points a single-valued relation at ref. Setting the value it
// already holds is a no-op. updatedAt is left alone.
func (r *Repository) AddOne(ctx context.Context, id, relation string, ref Ref) error {
	op := "add" + relation
	return r.observe(ctx, op, func(ctx context.Context) error {
		if err := validateID(op, id); err != nil {
			return err
		}
		rel, err := r.relationOf(op, relation, false)
		if err != nil {
			return err
		}
		refID, err := r.resolver.Resolve(ctx, op, rel, ref)
		if err != nil {
			return err
		}
		wrote, err := r.readModifyWrite(ctx, op, id, func(doc docstore.Document) (bool, error) {
			if current, _ := doc[rel.Name].(string); current == refID {
				return false, nil
			}
			doc[rel.Name] = refID
			return true, nil
		})
		if err == nil && wrote {
			r.publish(ctx, ActionRelationChanged, id, rel.Name)
		}
		return err
	})
}

// RemoveOne clears a single-valued relation and always persists.
func (r *Repository) RemoveOne(ctx context.Context, id, relation string) error {
	op := "remove" + relation
	return r.observe(ctx, op, func(ctx context.Context) error {
		if err := validateID(op, id); err != nil {
			return err
		}
		rel, err := r.relationOf(op, relation, false)
		if err != nil {
			return err
		}
		if rel.Required {
			return domainagg.InvalidOperation(op, "relation %q is required and cannot be cleared", rel.Name)
		}
		_, err = r.readModifyWrite(ctx, op, id, func(doc docstore.Document) (bool, error) {
			doc[rel.Name] = nil
			return true, nil
		})
		if err == nil {
			r.publish(ctx, ActionRelationChanged, id, rel.Name)
		}
		return err
	})
}

// AddMany appends the refs missing from a list relation, in input order.
// Nothing is written unless at least one id is new.
func (r *Repository) AddMany(ctx context.Context, id, relation string, refs []Ref) error {
	op := "add" + relation
	return r.observe(ctx, op, func(ctx context.Context) error {
		ids, rel, err := r.prepareMany(ctx, op, id, relation, refs)
		if err != nil {
			return err
		}
		wrote, err := r.readModifyWrite(ctx, op, id, func(doc docstore.Document) (bool, error) {
			merged, dirty := appendMissing(idList(doc[rel.Name]), ids)
			if dirty {
				doc[rel.Name] = merged
			}
			return dirty, nil
		})
		if err == nil && wrote {
			r.publish(ctx, ActionRelationChanged, id, rel.Name)
		}
		return err
	})
}

// RemoveMany drops the refs from a list relation. Nothing is written when
// none of them were present.
func (r *Repository) RemoveMany(ctx context.Context, id, relation string, refs []Ref) error {
	op := "remove" + relation
	return r.observe(ctx, op, func(ctx context.Context) error {
		ids, rel, err := r.prepareMany(ctx, op, id, relation, refs)
		if err != nil {
			return err
		}
		wrote, err := r.readModifyWrite(ctx, op, id, func(doc docstore.Document) (bool, error) {
			kept, dirty := removeAll(idList(doc[rel.Name]), ids)
			if dirty {
				doc[rel.Name] = kept
			}
			return dirty, nil
		})
		if err == nil && wrote {
			r.publish(ctx, ActionRelationChanged, id, rel.Name)
		}
		return err
	})
}

// ValidateMany resolves refs for a list relation without writing anything.
func (r *Repository) ValidateMany(ctx context.Context, relation string, refs []Ref) ([]string, error) {
	op := "validate" + relation
	var ids []string
	err := r.observe(ctx, op, func(ctx context.Context) error {
		rel, err := r.relationOf(op, relation, true)
		if err != nil {
			return err
		}
		ids, err = r.resolver.ResolveAll(ctx, op, rel, refs)
		return err
	})
	return ids, err
}

// prepareMany rejects empty input before touching the store, then resolves
// every ref with one batch check.
func (r *Repository) prepareMany(ctx context.Context, op, id, relation string, refs []Ref) ([]string, Relation, error) {
	if len(refs) == 0 {
		return nil, Relation{}, domainagg.ArgumentError(op, "%s: at least one reference is required", relation)
	}
	if err := validateID(op, id); err != nil {
		return nil, Relation{}, err
	}
	rel, err := r.relationOf(op, relation, true)
	if err != nil {
		return nil, Relation{}, err
	}
	ids, err := r.resolver.ResolveAll(ctx, op, rel, refs)
	if err != nil {
		return nil, Relation{}, err
	}
	return ids, rel, nil
}

func idList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if id, ok := item.(string); ok {
				out = append(out, id)
			}
		}
		return out
	}
	return nil
}
