package aggregates

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

func TestCreateRoundTripsThroughGetByID(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tag := f.tag(t, "infra")

	created := f.create(t, f.workspaces, docstore.Document{
		"name":  "Acme",
		"owner": domainagg.ByValue(owner),
		"tags":  []string{tag.ID()},
		"seats": 5,
	})
	got, err := f.workspaces.GetByID(context.Background(), created.ID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(created, got) {
		t.Fatalf("create echo differs from read:\ncreate=%v\nread=%v", created, got)
	}

	populatedOwner, ok := got["owner"].(docstore.Document)
	if !ok || populatedOwner.ID() != owner.ID() || populatedOwner["email"] != "owner@example.com" {
		t.Fatalf("owner not populated: %#v", got["owner"])
	}
	if ids := listIDs(t, got["tags"]); !equalIDs(ids, []string{tag.ID()}) {
		t.Fatalf("tags: %v", ids)
	}
	if ids := listIDs(t, got["members"]); len(ids) != 0 {
		t.Fatalf("members should default to empty, got %v", ids)
	}
}

func TestCreateStampsTimestamps(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.users, docstore.Document{"email": "a@example.com"})
	want := f.now.Format(time.RFC3339Nano)
	if created[FieldCreatedAt] != want || created[FieldUpdatedAt] != want {
		t.Fatalf("timestamps: created=%v updated=%v want=%s", created[FieldCreatedAt], created[FieldUpdatedAt], want)
	}
}

func TestCreateRejectsClientTimestamps(t *testing.T) {
	f := newFixture(t)
	for _, key := range []string{"id", "createdAt", "updatedAt", "_version"} {
		f.store.ResetCalls()
		_, err := f.users.Create(context.Background(), docstore.Document{
			"email": "a@example.com",
			key:     time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		if !domainagg.IsCode(err, domainagg.CodeInvalidOperation) {
			t.Fatalf("%s: expected invalid_operation, got %v", key, err)
		}
		if n := f.store.TotalCalls(); n != 0 {
			t.Fatalf("%s: store calls: want=0 got=%d", key, n)
		}
	}
}

func TestCreateWithMissingReferenceNamesFieldAndPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ghost := uuid.NewString()
	f.store.ResetCalls()

	_, err := f.workspaces.Create(context.Background(), docstore.Document{"name": "Acme", "owner": ghost})
	typed, ok := domainagg.As(err)
	if !ok || typed.Code != domainagg.CodeReferenceNotFound {
		t.Fatalf("expected reference_not_found, got %v", err)
	}
	if typed.Field != "owner" {
		t.Fatalf("field: want=owner got=%s", typed.Field)
	}
	if n := f.store.Calls(docstore.OpInsertOne); n != 0 {
		t.Fatalf("insertOne calls: want=0 got=%d", n)
	}
	if n, _ := f.store.Count(context.Background(), "workspaces", docstore.Filter{}); n != 0 {
		t.Fatalf("workspaces persisted: %d", n)
	}
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")

	cases := map[string]docstore.Document{
		"missing required": {"owner": owner.ID()},
		"wrong kind":       {"name": 7, "owner": owner.ID()},
		"unknown field":    {"name": "Acme", "owner": owner.ID(), "color": "red"},
		"fractional int":   {"name": "Acme", "owner": owner.ID(), "seats": 1.5},
		"missing relation": {"name": "Acme"},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f.store.ResetCalls()
			_, err := f.workspaces.Create(context.Background(), doc)
			if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
				t.Fatalf("expected data_validation, got %v", err)
			}
			if n := f.store.Calls(docstore.OpInsertOne); n != 0 {
				t.Fatalf("insertOne calls: want=0 got=%d", n)
			}
		})
	}
}

func TestCreateRejectsEnumViolation(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "m@example.com")
	_, err := f.members.Create(context.Background(), docstore.Document{"role": "owner", "user": u.ID()})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("expected data_validation, got %v", err)
	}
}

func TestCreateRejectsStoreAssignedFields(t *testing.T) {
	f := newFixture(t)
	for _, key := range []string{"id", "_version"} {
		_, err := f.users.Create(context.Background(), docstore.Document{"email": "x@example.com", key: "1"})
		if !domainagg.IsCode(err, domainagg.CodeInvalidOperation) {
			t.Fatalf("%s: expected invalid_operation, got %v", key, err)
		}
	}
}

func TestCreateWithoutAssignedIDIsUnexpected(t *testing.T) {
	f := newFixture(t)
	f.store.DropInsertedIDs(true)
	_, err := f.users.Create(context.Background(), docstore.Document{"email": "x@example.com"})
	if !domainagg.IsCode(err, domainagg.CodeUnexpected) {
		t.Fatalf("expected unexpected, got %v", err)
	}
}

func TestCreateWrapsInsertFailure(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("disk full")
	f.store.FailOn(docstore.OpInsertOne, cause)
	_, err := f.users.Create(context.Background(), docstore.Document{"email": "x@example.com"})
	if !domainagg.IsCode(err, domainagg.CodeDatabase) || !errors.Is(err, cause) {
		t.Fatalf("expected database_operation wrapping cause, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.GetByID(ctx, uuid.NewString())
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("absent: expected not found, got %v", err)
	}
	_, err = f.users.GetByID(ctx, "not-a-uuid")
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("malformed: expected argument_error, got %v", err)
	}
}

func TestGetByIDLeavesDanglingRelationsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@example.com")
	tag := f.tag(t, "gone")
	ws := f.create(t, f.workspaces, docstore.Document{"name": "Acme", "owner": owner.ID(), "tags": []string{tag.ID()}})

	if err := f.tags.DeleteByID(ctx, tag.ID()); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	got, err := f.workspaces.GetByID(ctx, ws.ID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ids := listIDs(t, got["tags"]); len(ids) != 0 {
		t.Fatalf("dangling tag should not populate, got %v", ids)
	}
}

func TestExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "e@example.com")

	for id, want := range map[string]bool{u.ID(): true, uuid.NewString(): false, "garbage": false} {
		got, err := f.users.Exists(ctx, id)
		if err != nil {
			t.Fatalf("Exists(%s): %v", id, err)
		}
		if got != want {
			t.Fatalf("Exists(%s): want=%v got=%v", id, want, got)
		}
	}
}

func TestUpdateByIDRejectsImmutableFieldsBeforeTouchingStore(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")

	for _, key := range []string{"id", "createdAt", "updatedAt"} {
		for _, val := range []any{nil, "x", time.Now(), 42} {
			f.store.ResetCalls()
			_, err := f.users.UpdateByID(context.Background(), u.ID(), docstore.Document{key: val})
			if !domainagg.IsCode(err, domainagg.CodeInvalidOperation) {
				t.Fatalf("%s=%v: expected invalid_operation, got %v", key, val, err)
			}
			if n := f.store.TotalCalls(); n != 0 {
				t.Fatalf("%s=%v: store calls: want=0 got=%d", key, val, n)
			}
		}
	}
}

func TestUpdateByIDStampsUpdatedAtAndRevalidatesRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@example.com")
	next := f.user(t, "n@example.com")
	ws := f.workspace(t, owner)

	f.now = f.now.Add(time.Hour)
	got, err := f.workspaces.UpdateByID(ctx, ws.ID(), docstore.Document{"name": "Renamed", "owner": next.ID()})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if got["name"] != "Renamed" {
		t.Fatalf("name: %v", got["name"])
	}
	if got[FieldUpdatedAt] != f.now.Format(time.RFC3339Nano) {
		t.Fatalf("updatedAt not stamped: %v", got[FieldUpdatedAt])
	}
	if got[FieldCreatedAt] == got[FieldUpdatedAt] {
		t.Fatalf("createdAt should be untouched")
	}
	if o, _ := got["owner"].(docstore.Document); o.ID() != next.ID() {
		t.Fatalf("owner: %v", got["owner"])
	}

	_, err = f.workspaces.UpdateByID(ctx, ws.ID(), docstore.Document{"owner": uuid.NewString()})
	if typed, ok := domainagg.As(err); !ok || typed.Code != domainagg.CodeReferenceNotFound || typed.Field != "owner" {
		t.Fatalf("expected reference_not_found on owner, got %v", err)
	}

	_, err = f.workspaces.UpdateByID(ctx, ws.ID(), docstore.Document{"owner": nil})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("clearing required relation: expected data_validation, got %v", err)
	}
}

func TestUpdateByIDOnMissingAggregateIsArgumentError(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.UpdateByID(context.Background(), uuid.NewString(), docstore.Document{"name": "x"})
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("expected argument_error, got %v", err)
	}
}

func TestUpdateWithFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")

	got, err := f.users.UpdateWithFilter(ctx, docstore.Filter{"email": "b@example.com"}, docstore.Document{"name": "Bee"})
	if err != nil {
		t.Fatalf("UpdateWithFilter: %v", err)
	}
	if got.ID() != b.ID() || got["name"] != "Bee" {
		t.Fatalf("unexpected result: %v", got)
	}

	_, err = f.users.UpdateWithFilter(ctx, docstore.Filter{"email": "nobody@example.com"}, docstore.Document{"name": "x"})
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("no match: expected argument_error, got %v", err)
	}
	_, err = f.users.UpdateWithFilter(ctx, docstore.Filter{}, docstore.Document{"name": "x"})
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("empty filter: expected argument_error, got %v", err)
	}
	_, err = f.users.UpdateWithFilter(ctx, docstore.Filter{"password": "x"}, docstore.Document{"name": "x"})
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("unknown filter field: expected argument_error, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "d@example.com")

	if err := f.users.DeleteByID(ctx, u.ID()); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := f.users.DeleteByID(ctx, u.ID()); !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("second delete: expected argument_error, got %v", err)
	}
	f.store.FailOn(docstore.OpDeleteOne, errors.New("io"))
	if err := f.users.DeleteByID(ctx, uuid.NewString()); !domainagg.IsCode(err, domainagg.CodeDatabase) {
		t.Fatalf("store failure: expected database_operation, got %v", err)
	}
}

func TestQueryPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		f.tag(t, "tag")
	}

	page, err := f.tags.Query(ctx, docstore.Filter{"name": "tag"}, 1, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Results) != 3 || page.NumberOfItems != 7 || page.Page != 1 || page.ItemsPerPage != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}

	last, err := f.tags.Query(ctx, docstore.Filter{"name": "tag"}, 2, 3)
	if err != nil {
		t.Fatalf("Query last: %v", err)
	}
	if len(last.Results) != 1 {
		t.Fatalf("last page: want 1 result, got %d", len(last.Results))
	}

	_, err = f.tags.Query(ctx, docstore.Filter{"name": "tag"}, 3, 3)
	if !domainagg.IsCode(err, domainagg.CodeArgument) {
		t.Fatalf("past end: expected argument_error, got %v", err)
	}
	if !strings.Contains(err.Error(), "maximum page is 2") {
		t.Fatalf("past end: error should name the maximum page: %v", err)
	}

	_, err = f.tags.Query(ctx, docstore.Filter{"name": "missing"}, 0, 3)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("no match: expected not found, got %v", err)
	}

	def, err := f.tags.Query(ctx, nil, 0, 0)
	if err != nil {
		t.Fatalf("Query default page size: %v", err)
	}
	if def.ItemsPerPage != DefaultItemsPerPage || len(def.Results) != 7 {
		t.Fatalf("default page: %+v", def)
	}

	for _, bad := range [][2]int{{-1, 3}, {0, -2}} {
		if _, err := f.tags.Query(ctx, nil, bad[0], bad[1]); !domainagg.IsCode(err, domainagg.CodeArgument) {
			t.Fatalf("page=%d ipp=%d: expected argument_error, got %v", bad[0], bad[1], err)
		}
	}
}

func TestQueryExactMultipleAllowsTrailingEmptyPage(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 4; i++ {
		f.tag(t, "t")
	}
	page, err := f.tags.Query(context.Background(), nil, 2, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Results) != 0 {
		t.Fatalf("expected empty trailing page, got %d", len(page.Results))
	}
}

func TestQueryByRelationAndRefFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")
	f.workspace(t, a)
	f.workspace(t, a)
	f.workspace(t, b)

	page, err := f.workspaces.Query(ctx, docstore.Filter{"owner": domainagg.ByValue(a)}, 0, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.NumberOfItems != 2 {
		t.Fatalf("want 2 workspaces for a, got %d", page.NumberOfItems)
	}
	for _, ws := range page.Results {
		if o, _ := ws["owner"].(docstore.Document); o.ID() != a.ID() {
			t.Fatalf("unexpected owner %v", ws["owner"])
		}
	}

	page, err = f.workspaces.Query(ctx, docstore.Filter{"id": docstore.In(a.ID(), uuid.NewString())}, 0, 10)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("user ids never match workspaces: got page=%v err=%v", page, err)
	}
}

func TestFormatChecksApplyToCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, docstore.Document{"email": "not-an-email"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("create: expected data_validation, got %v", err)
	}

	u := f.user(t, "u@example.com")
	f.store.ResetCalls()
	_, err = f.users.UpdateByID(ctx, u.ID(), docstore.Document{"email": "not-an-email"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("update: expected data_validation, got %v", err)
	}
	if n := f.store.Calls(docstore.OpUpdateOne); n != 0 {
		t.Fatalf("update with bad email reached the store %d times", n)
	}
	got, err := f.users.GetByID(ctx, u.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["email"] != "u@example.com" {
		t.Fatalf("email changed to %v", got["email"])
	}

	tag := f.tag(t, "infra")
	_, err = f.tags.UpdateByID(ctx, tag.ID(), docstore.Document{"name": "NOT A TAG!!"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("pattern update: expected data_validation, got %v", err)
	}
	if _, err := f.tags.UpdateByID(ctx, tag.ID(), docstore.Document{"name": "platform"}); err != nil {
		t.Fatalf("valid pattern update: %v", err)
	}
}

func TestSchemaValidateHookSeesPatch(t *testing.T) {
	var seen []docstore.Document
	schema := Schema{
		Collection: "notes",
		Fields:     []Field{{Name: "body", Kind: KindString}, {Name: "title", Kind: KindString}},
		Validate: func(doc docstore.Document) error {
			seen = append(seen, doc)
			if doc["body"] == "forbidden" {
				return fmt.Errorf("body is forbidden")
			}
			return nil
		},
	}
	repo := New(schema, Deps{Store: docstore.NewMemory(), Catalog: testCatalog{}})
	ctx := context.Background()
	note, err := repo.Create(ctx, docstore.Document{"title": "t"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = repo.UpdateByID(ctx, note.ID(), docstore.Document{"body": "forbidden"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("expected data_validation, got %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("hook calls: want=2 got=%d", len(seen))
	}
}
