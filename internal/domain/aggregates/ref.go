package aggregates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Identifiable is any materialized aggregate that knows its id.
type Identifiable interface {
	AggregateID() string
}

// Ref is a relation value on the write side: either a bare id or a
// materialized aggregate. The zero Ref means "no reference".
type Ref struct {
	id    string
	value Identifiable
}

func ByID(id string) Ref { return Ref{id: strings.TrimSpace(id)} }

func ByValue(v Identifiable) Ref { return Ref{value: v} }

// ByIDs builds a ref list from bare ids.
func ByIDs(ids ...string) []Ref {
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, ByID(id))
	}
	return out
}

// ID returns the identifier the ref points at, without checking existence.
func (r Ref) ID() string {
	if r.value != nil {
		return strings.TrimSpace(r.value.AggregateID())
	}
	return r.id
}

func (r Ref) IsZero() bool { return r.value == nil && r.id == "" }

// Value returns the materialized aggregate when the ref was built ByValue.
func (r Ref) Value() (Identifiable, bool) { return r.value, r.value != nil }

func (r Ref) String() string { return r.ID() }

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID())
}

type idOnly struct {
	ID string `json:"id"`
}

func (o idOnly) AggregateID() string { return o.ID }

// UnmarshalJSON accepts a bare id string, an object carrying "id", or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = ByID(id)
		return nil
	}
	var obj idOnly
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("reference must be an id or an object with an id: %w", err)
	}
	if strings.TrimSpace(obj.ID) == "" {
		return fmt.Errorf("reference object has no id")
	}
	*r = ByValue(obj)
	return nil
}

// Related is a relation value on the read side. It holds the referenced
// aggregate when the relation was populated, otherwise only its id.
type Related[T any] struct {
	ID    string
	Value *T
}

// Populated reports whether the full aggregate is available.
func (r Related[T]) Populated() bool { return r.Value != nil }

func (r Related[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.Value != nil:
		return json.Marshal(r.Value)
	case r.ID != "":
		return json.Marshal(r.ID)
	default:
		return []byte("null"), nil
	}
}

func (r *Related[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = Related[T]{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Related[T]{ID: id}
		return nil
	}
	var head idOnly
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = Related[T]{ID: head.ID, Value: &value}
	return nil
}
