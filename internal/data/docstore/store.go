// Package docstore defines the schemaless document store the repositories
// persist through, plus an in-memory and a gorm-backed implementation.
//
// Documents are JSON objects. The store owns the id (assigned on insert) and
// the bookkeeping fields prefixed with "_"; everything else belongs to callers.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

const (
	// FieldID is the primary identifier of every document.
	FieldID = "id"
	// FieldVersion is bumped by the store on every write and checked by Save.
	FieldVersion = "_version"
	// FieldCollection names the collection a document was read from.
	FieldCollection = "_collection"

	internalPrefix = "_"
)

var (
	// ErrVersionConflict is returned by Save when the stored version moved.
	ErrVersionConflict = errors.New("docstore: version conflict")
	// ErrNotFound is returned by Save when the document no longer exists.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrDuplicateID is returned by InsertOne when the caller-supplied id is taken.
	ErrDuplicateID = errors.New("docstore: duplicate id")
)

// Document is a single stored record.
type Document map[string]any

// ID returns the document id, or "" when unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// AggregateID lets a document stand in wherever a materialized aggregate is accepted.
func (d Document) AggregateID() string { return d.ID() }

// Version returns the store version, or 0 when the document was never persisted.
func (d Document) Version() int64 {
	switch v := d[FieldVersion].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

// IsInternalField reports whether key is store bookkeeping.
func IsInternalField(key string) bool {
	return strings.HasPrefix(key, internalPrefix)
}

// InSet matches documents whose field equals any of the values.
type InSet []any

// In builds a set-membership condition.
func In[T any](values ...T) InSet {
	out := make(InSet, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// Filter selects documents by top-level field equality. An InSet value
// matches by membership. The key "id" addresses the primary identifier.
type Filter map[string]any

// FindOptions bounds a FindMany call. Limit <= 0 means unbounded.
type FindOptions struct {
	Projection []string
	Skip       int
	Limit      int
}

// PopulateSpec describes one relation to replace with its referenced documents.
type PopulateSpec struct {
	Field      string
	Collection string
	Many       bool
}

// Store is the persistence contract every repository is written against.
type Store interface {
	// FindByID returns nil, nil when the document does not exist.
	FindByID(ctx context.Context, collection, id string) (Document, error)
	FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// InsertOne persists doc and returns the assigned id.
	InsertOne(ctx context.Context, collection string, doc Document) (string, error)
	// UpdateOne merges patch into the first document matching filter.
	UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	// Save replaces a previously read document. When doc carries a version
	// the write only lands if the stored version still matches.
	Save(ctx context.Context, collection string, doc Document) error
	// Populate replaces doc[spec.Field] with the referenced document(s).
	Populate(ctx context.Context, doc Document, spec PopulateSpec) (Document, error)
}

// Clone deep-copies a document through its JSON form.
func Clone(doc Document) (Document, error) {
	if doc == nil {
		return nil, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw []byte) (Document, error) {
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// stripInternal drops bookkeeping fields before a body is persisted.
func stripInternal(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == FieldID || IsInternalField(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func project(doc Document, fields []string) Document {
	if len(fields) == 0 {
		return doc
	}
	out := Document{FieldID: doc[FieldID]}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
