package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type StateRepo interface {
	Create(ctx context.Context, in types.StateInput) (*types.State, error)
	GetByID(ctx context.Context, id string) (*types.State, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.State], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.State, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.State, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	AddWorkspace(ctx context.Context, id string, ws types.Ref) error
	RemoveWorkspace(ctx context.Context, id string) error
	Raw() *aggregates.Repository
}

type stateRepo struct {
	aggregates.Typed[types.State]
}

func NewStateRepo(deps aggregates.Deps) StateRepo {
	repo := aggregates.New(StateSchema, deps.Named("StateRepo"))
	return &stateRepo{Typed: aggregates.NewTyped[types.State](repo)}
}

func (sr *stateRepo) Create(ctx context.Context, in types.StateInput) (*types.State, error) {
	doc := docstore.Document{
		"name":  in.Name,
		"group": in.Group,
	}
	putString(doc, "color", in.Color)
	putRef(doc, "workspace", in.Workspace)
	return sr.Typed.Create(ctx, doc)
}

func (sr *stateRepo) AddWorkspace(ctx context.Context, id string, ws types.Ref) error {
	return sr.Raw().AddOne(ctx, id, "workspace", ws)
}

func (sr *stateRepo) RemoveWorkspace(ctx context.Context, id string) error {
	return sr.Raw().RemoveOne(ctx, id, "workspace")
}
