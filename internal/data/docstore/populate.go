package docstore

import (
	"context"
	"fmt"
)

type batchFinder func(ctx context.Context, collection string, ids []string) ([]Document, error)

// populate swaps the id(s) held in doc[spec.Field] for the referenced
// documents. Dangling ids populate to nil (single) or are skipped (many),
// and list order follows the stored id order.
func populate(ctx context.Context, find batchFinder, doc Document, spec PopulateSpec) (Document, error) {
	if doc == nil {
		return nil, nil
	}
	raw, ok := doc[spec.Field]
	if !ok || raw == nil {
		return doc, nil
	}

	ids, err := refIDs(raw, spec.Many)
	if err != nil {
		return nil, fmt.Errorf("populate %s: %w", spec.Field, err)
	}
	if len(ids) == 0 {
		if spec.Many {
			doc[spec.Field] = []Document{}
		}
		return doc, nil
	}

	found, err := find(ctx, spec.Collection, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Document, len(found))
	for _, d := range found {
		byID[d.ID()] = d
	}

	if !spec.Many {
		if target, ok := byID[ids[0]]; ok {
			doc[spec.Field] = target
		} else {
			doc[spec.Field] = nil
		}
		return doc, nil
	}
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		if target, ok := byID[id]; ok {
			out = append(out, target)
		}
	}
	doc[spec.Field] = out
	return doc, nil
}

func refIDs(raw any, many bool) ([]string, error) {
	if !many {
		id, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected id string, got %T", raw)
		}
		return []string{id}, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			id, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected id string in list, got %T", item)
			}
			out = append(out, id)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected id list, got %T", raw)
}
