package aggregates

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// ExistenceChecker verifies that every id names a live aggregate.
type ExistenceChecker interface {
	AllExist(ctx context.Context, ids []string) (bool, error)
}

// Catalog hands out the checker for a collection. The process registry
// implements it; nothing here keeps global state.
type Catalog interface {
	Checker(collection string) (ExistenceChecker, bool)
}

// Checker batches existence lookups for one collection.
type Checker struct {
	store      docstore.Store
	collection string
}

var _ ExistenceChecker = Checker{}

func NewChecker(store docstore.Store, collection string) Checker {
	return Checker{store: store, collection: collection}
}

// AllExist issues exactly one lookup regardless of how many ids are passed.
// A partial miss fails with aggregate_not_found carrying the missing ids.
func (c Checker) AllExist(ctx context.Context, ids []string) (bool, error) {
	op := c.collection + ".allExist"
	unique := dedupe(ids)
	if len(unique) == 0 {
		return true, nil
	}
	found, err := c.store.FindMany(ctx, c.collection,
		docstore.Filter{docstore.FieldID: docstore.In(unique...)},
		docstore.FindOptions{Projection: []string{docstore.FieldID}},
	)
	if err != nil {
		return false, mapStoreError(op, err)
	}
	present := make(map[string]struct{}, len(found))
	for _, doc := range found {
		present[doc.ID()] = struct{}{}
	}
	var missing []string
	for _, id := range unique {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return false, domainagg.NotFound(op, c.collection, missing...)
	}
	return true, nil
}

// dedupe keeps the first occurrence of every id, in order.
func dedupe(ids []string) []string {
	out, _ := appendMissing(nil, ids)
	return out
}
