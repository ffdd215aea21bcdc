package aggregates

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
)

var (
	userSchema = Schema{
		Collection: "users",
		Fields: []Field{
			{Name: "email", Kind: KindString, Required: true, Format: "email"},
			{Name: "name", Kind: KindString},
		},
	}
	tagSchema = Schema{
		Collection: "tags",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true, Pattern: regexp.MustCompile(`^[a-z][a-z0-9-]*$`)},
		},
		Relations: []Relation{{Name: "workspace", Target: "workspaces"}},
	}
	memberSchema = Schema{
		Collection: "members",
		Fields: []Field{
			{Name: "role", Kind: KindString, Required: true, Enum: []string{"admin", "member", "guest"}},
		},
		Relations: []Relation{{Name: "user", Target: "users", Required: true}},
	}
	workspaceSchema = Schema{
		Collection: "workspaces",
		Fields: []Field{
			{Name: "name", Kind: KindString, Required: true},
			{Name: "seats", Kind: KindInt},
		},
		Relations: []Relation{
			{Name: "owner", Target: "users", Required: true},
			{Name: "lead", Target: "members"},
			{Name: "members", Target: "members", Many: true},
			{Name: "tags", Target: "tags", Many: true},
		},
	}
)

type testCatalog map[string]*Repository

func (c testCatalog) Checker(collection string) (ExistenceChecker, bool) {
	r, ok := c[collection]
	if !ok {
		return nil, false
	}
	return r, true
}

type spyHooks struct {
	mu         sync.Mutex
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *spyHooks) last() spyOperation {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Operations) == 0 {
		return spyOperation{}
	}
	return h.Operations[len(h.Operations)-1]
}

type spyPublisher struct {
	mu     sync.Mutex
	events []ChangeEvent
	err    error
}

func (p *spyPublisher) Publish(_ context.Context, evt ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *spyPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Collection+":"+e.Action)
	}
	return out
}

type fixture struct {
	store      *docstore.Memory
	hooks      *spyHooks
	events     *spyPublisher
	now        time.Time
	users      *Repository
	tags       *Repository
	members    *Repository
	workspaces *Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  docstore.NewMemory(),
		hooks:  &spyHooks{},
		events: &spyPublisher{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	catalog := testCatalog{}
	deps := Deps{
		Store:   f.store,
		Catalog: catalog,
		Hooks:   f.hooks,
		Events:  f.events,
		Now:     func() time.Time { return f.now },
	}
	f.users = New(userSchema, deps)
	f.tags = New(tagSchema, deps)
	f.members = New(memberSchema, deps)
	f.workspaces = New(workspaceSchema, deps)
	for _, r := range []*Repository{f.users, f.tags, f.members, f.workspaces} {
		catalog[r.Collection()] = r
	}
	return f
}

func (f *fixture) create(t *testing.T, repo *Repository, doc docstore.Document) docstore.Document {
	t.Helper()
	out, err := repo.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("create %s: %v", repo.Collection(), err)
	}
	return out
}

func (f *fixture) user(t *testing.T, email string) docstore.Document {
	t.Helper()
	return f.create(t, f.users, docstore.Document{"email": email})
}

func (f *fixture) workspace(t *testing.T, owner docstore.Document) docstore.Document {
	t.Helper()
	return f.create(t, f.workspaces, docstore.Document{"name": "Acme", "owner": owner.ID()})
}

func (f *fixture) tag(t *testing.T, name string) docstore.Document {
	t.Helper()
	return f.create(t, f.tags, docstore.Document{"name": name})
}

func (f *fixture) member(t *testing.T, user docstore.Document) docstore.Document {
	t.Helper()
	return f.create(t, f.members, docstore.Document{"role": "member", "user": user.ID()})
}

// listIDs reads the ids of a populated or raw list relation.
func listIDs(t *testing.T, raw any) []string {
	t.Helper()
	switch v := raw.(type) {
	case []docstore.Document:
		out := make([]string, 0, len(v))
		for _, d := range v {
			out = append(out, d.ID())
		}
		return out
	case []string:
		return v
	case []any:
		return idList(v)
	case nil:
		return nil
	}
	t.Fatalf("unexpected list value %T", raw)
	return nil
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
