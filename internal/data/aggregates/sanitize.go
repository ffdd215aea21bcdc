package aggregates

import (
	"github.com/yungbote/workspace-backend/internal/data/docstore"
)

// Sanitize returns a copy of doc without store bookkeeping fields, at every
// depth of a populated relation graph. The input is left untouched.
func Sanitize(doc docstore.Document) docstore.Document {
	if doc == nil {
		return nil
	}
	return docstore.Document(sanitizeMap(doc))
}

func sanitizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if docstore.IsInternalField(k) {
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case docstore.Document:
		if t == nil {
			return nil
		}
		return docstore.Document(sanitizeMap(t))
	case map[string]any:
		if t == nil {
			return nil
		}
		return sanitizeMap(t)
	case []docstore.Document:
		out := make([]docstore.Document, 0, len(t))
		for _, item := range t {
			out = append(out, Sanitize(item))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, sanitizeValue(item))
		}
		return out
	}
	return v
}
