package aggregates

import (
	"context"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// Resolver turns refs into canonical ids, checking the target collection.
type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) Resolver {
	return Resolver{catalog: catalog}
}

func (r Resolver) checker(op string, rel Relation) (ExistenceChecker, error) {
	if r.catalog == nil {
		return nil, domainagg.Unexpected(op, "no catalog configured to resolve %s", rel.Name)
	}
	c, ok := r.catalog.Checker(rel.Target)
	if !ok {
		return nil, domainagg.Unexpected(op, "no repository registered for %s (relation %s)", rel.Target, rel.Name)
	}
	return c, nil
}

// Resolve returns the id behind ref, failing with reference_not_found
// (naming the relation field) when it does not exist.
func (r Resolver) Resolve(ctx context.Context, op string, rel Relation, ref Ref) (string, error) {
	id := ref.ID()
	if id == "" {
		return "", domainagg.ArgumentError(op, "%s: empty reference", rel.Name)
	}
	c, err := r.checker(op, rel)
	if err != nil {
		return "", err
	}
	if _, err := c.AllExist(ctx, []string{id}); err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return "", domainagg.ReferenceNotFound(op, rel.Name, id)
		}
		return "", err
	}
	return id, nil
}

// ResolveAll resolves a ref list with a single batch check. Duplicates
// collapse onto their first occurrence.
func (r Resolver) ResolveAll(ctx context.Context, op string, rel Relation, refs []Ref) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ref.ID()
		if id == "" {
			return nil, domainagg.ArgumentError(op, "%s: empty reference", rel.Name)
		}
		ids = append(ids, id)
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	c, err := r.checker(op, rel)
	if err != nil {
		return nil, err
	}
	if _, err := c.AllExist(ctx, ids); err != nil {
		if typed, ok := domainagg.As(err); ok && typed.Code == domainagg.CodeNotFound {
			return nil, domainagg.ReferenceNotFound(op, rel.Name, typed.MissingIDs...)
		}
		return nil, err
	}
	return ids, nil
}
