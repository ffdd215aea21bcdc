package aggregates

import (
	"context"
	"encoding/json"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// TypedPage is a Page decoded into domain values.
type TypedPage[T any] struct {
	Results       []*T  `json:"results"`
	NumberOfItems int64 `json:"numberOfItems"`
	Page          int   `json:"page"`
	ItemsPerPage  int   `json:"itemsPerPage"`
}

// Typed decodes the sanitized documents a Repository returns into T. It
// adds no behaviour of its own; every call goes straight to the Repository.
type Typed[T any] struct {
	repo *Repository
}

func NewTyped[T any](repo *Repository) Typed[T] {
	return Typed[T]{repo: repo}
}

// Raw exposes the untyped repository.
func (t Typed[T]) Raw() *Repository { return t.repo }

func (t Typed[T]) Create(ctx context.Context, input docstore.Document) (*T, error) {
	doc, err := t.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return Decode[T]("create", doc)
}

func (t Typed[T]) GetByID(ctx context.Context, id string) (*T, error) {
	doc, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return Decode[T]("getById", doc)
}

func (t Typed[T]) Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*TypedPage[T], error) {
	raw, err := t.repo.Query(ctx, filter, page, itemsPerPage)
	if err != nil {
		return nil, err
	}
	out := &TypedPage[T]{
		Results:       make([]*T, 0, len(raw.Results)),
		NumberOfItems: raw.NumberOfItems,
		Page:          raw.Page,
		ItemsPerPage:  raw.ItemsPerPage,
	}
	for _, doc := range raw.Results {
		v, err := Decode[T]("query", doc)
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, v)
	}
	return out, nil
}

func (t Typed[T]) UpdateByID(ctx context.Context, id string, patch docstore.Document) (*T, error) {
	doc, err := t.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return Decode[T]("updateById", doc)
}

func (t Typed[T]) UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*T, error) {
	doc, err := t.repo.UpdateWithFilter(ctx, filter, patch)
	if err != nil {
		return nil, err
	}
	return Decode[T]("updateWithFilter", doc)
}

func (t Typed[T]) DeleteByID(ctx context.Context, id string) error {
	return t.repo.DeleteByID(ctx, id)
}

func (t Typed[T]) Exists(ctx context.Context, id string) (bool, error) {
	return t.repo.Exists(ctx, id)
}

func (t Typed[T]) AllExist(ctx context.Context, ids []string) (bool, error) {
	return t.repo.AllExist(ctx, ids)
}

// Decode converts a sanitized document into T through its JSON form.
func Decode[T any](op string, doc docstore.Document) (*T, error) {
	if doc == nil {
		return nil, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeUnexpected, op, "encode document", err)
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, domainagg.NewError(domainagg.CodeUnexpected, op, "decode document", err)
	}
	return out, nil
}
