package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Primitive names a Store method, used for call counting and failure injection.
type Primitive string

const (
	OpFindByID  Primitive = "findById"
	OpFindMany  Primitive = "findMany"
	OpCount     Primitive = "count"
	OpInsertOne Primitive = "insertOne"
	OpUpdateOne Primitive = "updateOne"
	OpDeleteOne Primitive = "deleteOne"
	OpSave      Primitive = "save"
	OpPopulate  Primitive = "populate"
)

// Memory is a process-local Store. Documents are held in their JSON form so
// nothing a caller does to a returned document reaches the stored copy.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
	calls       map[Primitive]int
	failures    map[Primitive]error
	dropIDs     bool
}

type memCollection struct {
	order []string
	docs  map[string][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		collections: map[string]*memCollection{},
		calls:       map[Primitive]int{},
		failures:    map[Primitive]error{},
	}
}

// Calls returns how many times op was invoked since the last reset.
func (m *Memory) Calls(op Primitive) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls sums every primitive invocation since the last reset.
func (m *Memory) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *Memory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = map[Primitive]int{}
}

// FailOn makes op return err until cleared with a nil err.
func (m *Memory) FailOn(op Primitive, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// DropInsertedIDs makes InsertOne report success without an id.
func (m *Memory) DropInsertedIDs(drop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropIDs = drop
}

// enter records the call and returns any injected failure. Callers hold m.mu.
func (m *Memory) enter(op Primitive) error {
	m.calls[op]++
	return m.failures[op]
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: map[string][]byte{}}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) FindByID(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpFindByID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := m.collection(collection).docs[id]
	if !ok {
		return nil, nil
	}
	return m.read(collection, raw)
}

func (m *Memory) FindMany(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpFindMany); err != nil {
		return nil, err
	}
	return m.findLocked(ctx, collection, filter, opts)
}

func (m *Memory) findLocked(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	c := m.collection(collection)
	out := []Document{}
	skipped := 0
	for _, id := range c.order {
		doc, err := m.read(collection, c.docs[id])
		if err != nil {
			return nil, err
		}
		if !filter.Matches(doc) {
			continue
		}
		if skipped < opts.Skip {
			skipped++
			continue
		}
		out = append(out, project(doc, opts.Projection))
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpCount); err != nil {
		return 0, err
	}
	docs, err := m.findLocked(ctx, collection, filter, FindOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (m *Memory) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpInsertOne); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
	}
	c := m.collection(collection)
	if _, exists := c.docs[id]; exists {
		return "", ErrDuplicateID
	}
	body := stripInternal(doc)
	body[FieldID] = id
	body[FieldVersion] = int64(1)
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	if m.dropIDs {
		return "", nil
	}
	return id, nil
}

func (m *Memory) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpdateOne); err != nil {
		return 0, err
	}
	matched, err := m.findLocked(ctx, collection, filter, FindOptions{Limit: 1})
	if err != nil || len(matched) == 0 {
		return 0, err
	}
	target := matched[0]
	for k, v := range stripInternal(patch) {
		target[k] = v
	}
	if err := m.writeLocked(collection, target, target.Version()+1); err != nil {
		return 0, err
	}
	return 1, nil
}

func (m *Memory) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpDeleteOne); err != nil {
		return 0, err
	}
	matched, err := m.findLocked(ctx, collection, filter, FindOptions{Limit: 1})
	if err != nil || len(matched) == 0 {
		return 0, err
	}
	id := matched[0].ID()
	c := m.collection(collection)
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *Memory) Save(ctx context.Context, collection string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpSave); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, ok := m.collection(collection).docs[doc.ID()]
	if !ok {
		return ErrNotFound
	}
	current, err := decode(raw)
	if err != nil {
		return err
	}
	if expected := doc.Version(); expected != 0 && current.Version() != expected {
		return ErrVersionConflict
	}
	return m.writeLocked(collection, doc, current.Version()+1)
}

func (m *Memory) Populate(ctx context.Context, doc Document, spec PopulateSpec) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpPopulate); err != nil {
		return nil, err
	}
	return populate(ctx, func(ctx context.Context, collection string, ids []string) ([]Document, error) {
		return m.findLocked(ctx, collection, Filter{FieldID: In(ids...)}, FindOptions{})
	}, doc, spec)
}

func (m *Memory) writeLocked(collection string, doc Document, version int64) error {
	body := stripInternal(doc)
	body[FieldID] = doc.ID()
	body[FieldVersion] = version
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	m.collection(collection).docs[doc.ID()] = raw
	return nil
}

func (m *Memory) read(collection string, raw []byte) (Document, error) {
	doc, err := decode(raw)
	if err != nil {
		return nil, err
	}
	doc[FieldCollection] = collection
	return doc, nil
}
