package aggregates

import (
	"fmt"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type (
	Ref          = domainagg.Ref
	Identifiable = domainagg.Identifiable
)

// RefFrom normalizes a loosely typed relation value into a Ref.
func RefFrom(v any) (Ref, error) {
	switch t := v.(type) {
	case nil:
		return Ref{}, nil
	case Ref:
		return t, nil
	case *Ref:
		if t == nil {
			return Ref{}, nil
		}
		return *t, nil
	case string:
		return domainagg.ByID(t), nil
	case Identifiable:
		return domainagg.ByValue(t), nil
	case map[string]any:
		doc := docstore.Document(t)
		if doc.ID() == "" {
			return Ref{}, fmt.Errorf("reference object has no id")
		}
		return domainagg.ByValue(doc), nil
	}
	return Ref{}, fmt.Errorf("unsupported reference value %T", v)
}

// RefsFrom normalizes a loosely typed relation list.
func RefsFrom(v any) ([]Ref, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []Ref:
		return t, nil
	case []string:
		return domainagg.ByIDs(t...), nil
	case []docstore.Document:
		out := make([]Ref, 0, len(t))
		for _, d := range t {
			out = append(out, domainagg.ByValue(d))
		}
		return out, nil
	case []any:
		out := make([]Ref, 0, len(t))
		for _, item := range t {
			ref, err := RefFrom(item)
			if err != nil {
				return nil, err
			}
			if ref.IsZero() {
				return nil, fmt.Errorf("reference list contains an empty entry")
			}
			out = append(out, ref)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported reference list %T", v)
}
