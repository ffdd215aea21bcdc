package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects field names that cannot be addressed safely.
func (f Filter) Validate() error {
	for key := range f {
		if !fieldNamePattern.MatchString(key) {
			return fmt.Errorf("invalid filter field %q", key)
		}
	}
	return nil
}

// Keys returns the filter fields in a stable order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matches evaluates the filter against a decoded document.
func (f Filter) Matches(doc Document) bool {
	for key, want := range f {
		got, present := doc[key]
		switch w := want.(type) {
		case InSet:
			if !present {
				return false
			}
			hit := false
			for _, candidate := range w {
				if jsonEqual(got, candidate) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		case nil:
			if present && got != nil {
				return false
			}
		default:
			if !present || !jsonEqual(got, want) {
				return false
			}
		}
	}
	return true
}

// jsonEqual compares two values by their canonical JSON encoding so that
// 3 and 3.0, or a typed string and its decoded form, compare equal.
func jsonEqual(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}
