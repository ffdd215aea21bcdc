package aggregates

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
)

func assertNoInternalFields(t *testing.T, path string, v any) {
	t.Helper()
	switch val := v.(type) {
	case docstore.Document:
		assertNoInternalFields(t, path, map[string]any(val))
	case map[string]any:
		for k, inner := range val {
			if strings.HasPrefix(k, "_") {
				t.Fatalf("internal field %s.%s leaked", path, k)
			}
			assertNoInternalFields(t, path+"."+k, inner)
		}
	case []docstore.Document:
		for _, item := range val {
			assertNoInternalFields(t, path+"[]", item)
		}
	case []any:
		for _, item := range val {
			assertNoInternalFields(t, path+"[]", item)
		}
	}
}

func TestSanitizeIsRecursiveAndLeavesInputAlone(t *testing.T) {
	in := docstore.Document{
		"id":          "1",
		"_version":    3,
		"_collection": "workspaces",
		"owner":       docstore.Document{"id": "2", "_version": 1},
		"tags":        []docstore.Document{{"id": "3", "_collection": "tags"}},
		"meta":        map[string]any{"_hidden": true, "shown": []any{map[string]any{"_x": 1, "y": 2}}},
	}
	out := Sanitize(in)
	assertNoInternalFields(t, "doc", out)

	if _, ok := in["_version"]; !ok {
		t.Fatalf("input was mutated")
	}
	if _, ok := in["owner"].(docstore.Document)["_version"]; !ok {
		t.Fatalf("nested input was mutated")
	}
	if out["owner"].(docstore.Document).ID() != "2" {
		t.Fatalf("owner lost its id: %v", out["owner"])
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	in := docstore.Document{
		"id":       "1",
		"_version": 1,
		"owner":    docstore.Document{"id": "2", "_collection": "users"},
		"tags":     []docstore.Document{{"id": "3", "_version": 4}},
	}
	once := Sanitize(in)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sanitize is not idempotent:\nonce=%v\ntwice=%v", once, twice)
	}
	if Sanitize(nil) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestReadsNeverExposeInternalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@example.com")
	lead := f.member(t, owner)
	tag := f.tag(t, "t")
	ws := f.create(t, f.workspaces, docstore.Document{
		"name":    "Acme",
		"owner":   owner.ID(),
		"lead":    lead.ID(),
		"members": []string{lead.ID()},
		"tags":    []string{tag.ID()},
	})
	assertNoInternalFields(t, "create", ws)

	got, err := f.workspaces.GetByID(ctx, ws.ID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertNoInternalFields(t, "getById", got)

	page, err := f.workspaces.Query(ctx, nil, 0, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, doc := range page.Results {
		assertNoInternalFields(t, "query", doc)
	}
}
