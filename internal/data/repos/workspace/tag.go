package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type TagRepo interface {
	Create(ctx context.Context, in types.TagInput) (*types.Tag, error)
	GetByID(ctx context.Context, id string) (*types.Tag, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Tag], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Tag, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Tag, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	AddWorkspace(ctx context.Context, id string, ws types.Ref) error
	RemoveWorkspace(ctx context.Context, id string) error
	Raw() *aggregates.Repository
}

type tagRepo struct {
	aggregates.Typed[types.Tag]
}

func NewTagRepo(deps aggregates.Deps) TagRepo {
	repo := aggregates.New(TagSchema, deps.Named("TagRepo"))
	return &tagRepo{Typed: aggregates.NewTyped[types.Tag](repo)}
}

func (tr *tagRepo) Create(ctx context.Context, in types.TagInput) (*types.Tag, error) {
	doc := docstore.Document{"name": in.Name}
	putString(doc, "color", in.Color)
	putRef(doc, "workspace", in.Workspace)
	return tr.Typed.Create(ctx, doc)
}

func (tr *tagRepo) AddWorkspace(ctx context.Context, id string, ws types.Ref) error {
	return tr.Raw().AddOne(ctx, id, "workspace", ws)
}

func (tr *tagRepo) RemoveWorkspace(ctx context.Context, id string) error {
	return tr.Raw().RemoveOne(ctx, id, "workspace")
}
