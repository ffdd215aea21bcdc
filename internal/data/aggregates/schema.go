package aggregates

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
)

var formats = validator.New()

// System fields stamped or assigned by the repository, never by callers.
const (
	FieldID        = docstore.FieldID
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt"
)

// Kind is the structural type of a domain field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindStringList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindStringList:
		return "string list"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Field describes one domain scalar. Format is a validator tag ("email",
// "http_url", "hexcolor") and Pattern a grammar; both apply to non-empty
// string values on create and on update.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Enum     []string
	Format   string
	Pattern  *regexp.Regexp
}

// Relation describes a single reference (Many=false) or a reference collection.
type Relation struct {
	Name     string
	Target   string
	Many     bool
	Required bool
}

// Schema is the definition a Repository enforces for one collection.
type Schema struct {
	Collection string
	Fields     []Field
	Relations  []Relation
	// Validate runs after structural checks. On create it sees the fully
	// resolved record, on update only the patched fields.
	Validate func(doc docstore.Document) error
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) relation(name string) (Relation, bool) {
	for _, r := range s.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

func isSystemField(name string) bool {
	switch name {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldDeletedAt:
		return true
	}
	return false
}

// isImmutableField reports fields no update payload may touch.
func isImmutableField(name string) bool {
	return name == FieldID || name == FieldCreatedAt || name == FieldUpdatedAt
}

// addressable reports whether a query filter may name the field.
func (s Schema) addressable(name string) bool {
	if isSystemField(name) {
		return true
	}
	if _, ok := s.field(name); ok {
		return true
	}
	_, ok := s.relation(name)
	return ok
}

// validateRecord checks a full record. Relation values are already canonical ids.
func (s Schema) validateRecord(doc docstore.Document) error {
	var errs []error
	for key := range doc {
		if isSystemField(key) || docstore.IsInternalField(key) {
			continue
		}
		if _, ok := s.field(key); ok {
			continue
		}
		if _, ok := s.relation(key); ok {
			continue
		}
		errs = append(errs, fmt.Errorf("unknown field %q", key))
	}
	for _, f := range s.Fields {
		if err := f.check(doc[f.Name], f.Required); err != nil {
			errs = append(errs, err)
		}
	}
	for _, r := range s.Relations {
		if err := r.check(doc[r.Name]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if s.Validate != nil {
		return s.Validate(doc)
	}
	return nil
}

// validatePatch checks only the fields present in a partial update.
func (s Schema) validatePatch(patch docstore.Document) error {
	var errs []error
	for key, val := range patch {
		if key == FieldDeletedAt {
			if val != nil {
				if _, ok := asTime(val); !ok {
					errs = append(errs, fmt.Errorf("%s must be a time", key))
				}
			}
			continue
		}
		if f, ok := s.field(key); ok {
			if err := f.check(val, f.Required); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if r, ok := s.relation(key); ok {
			if err := r.check(val); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		errs = append(errs, fmt.Errorf("unknown field %q", key))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if s.Validate != nil {
		return s.Validate(patch)
	}
	return nil
}

func (f Field) check(val any, required bool) error {
	if val == nil {
		if required {
			return fmt.Errorf("%s is required", f.Name)
		}
		return nil
	}
	ok := false
	switch f.Kind {
	case KindString:
		var s string
		s, ok = val.(string)
		if ok && required && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", f.Name)
		}
		if ok && len(f.Enum) > 0 && !contains(f.Enum, s) {
			return fmt.Errorf("%s must be one of %s", f.Name, strings.Join(f.Enum, ", "))
		}
		if ok && s != "" {
			if err := f.checkFormat(s); err != nil {
				return err
			}
		}
	case KindInt:
		var n float64
		n, ok = asNumber(val)
		ok = ok && n == math.Trunc(n)
	case KindFloat:
		_, ok = asNumber(val)
	case KindBool:
		_, ok = val.(bool)
	case KindTime:
		_, ok = asTime(val)
	case KindStringList:
		ok = isStringList(val)
	case KindObject:
		switch val.(type) {
		case map[string]any, docstore.Document:
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%s must be a %s", f.Name, f.Kind)
	}
	return nil
}

func (f Field) checkFormat(s string) error {
	if f.Format != "" {
		if err := formats.Var(s, f.Format); err != nil {
			return fmt.Errorf("%s %q is not a valid %s", f.Name, s, f.Format)
		}
	}
	if f.Pattern != nil && !f.Pattern.MatchString(s) {
		return fmt.Errorf("%s %q is malformed", f.Name, s)
	}
	return nil
}

func (r Relation) check(val any) error {
	if r.Many {
		if val == nil {
			return nil
		}
		if !isStringList(val) {
			return fmt.Errorf("%s must be a list of ids", r.Name)
		}
		return nil
	}
	if val == nil {
		if r.Required {
			return fmt.Errorf("%s is required", r.Name)
		}
		return nil
	}
	if id, ok := val.(string); !ok || id == "" {
		return fmt.Errorf("%s must be an id", r.Name)
	}
	return nil
}

func asNumber(val any) (float64, bool) {
	switch n := val.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asTime(val any) (time.Time, bool) {
	switch t := val.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

func isStringList(val any) bool {
	switch list := val.(type) {
	case []string:
		return true
	case []any:
		for _, item := range list {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
