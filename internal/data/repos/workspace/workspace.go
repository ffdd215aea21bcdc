package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, in types.WorkspaceInput) (*types.Workspace, error)
	GetByID(ctx context.Context, id string) (*types.Workspace, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Workspace], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Workspace, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Workspace, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)

	AddOwner(ctx context.Context, id string, owner types.Ref) error
	RemoveOwner(ctx context.Context, id string) error

	AddMembers(ctx context.Context, id string, members []types.Ref) error
	RemoveMembers(ctx context.Context, id string, members []types.Ref) error
	ValidateMembers(ctx context.Context, members []types.Ref) ([]string, error)

	AddProjects(ctx context.Context, id string, projects []types.Ref) error
	RemoveProjects(ctx context.Context, id string, projects []types.Ref) error
	ValidateProjects(ctx context.Context, projects []types.Ref) ([]string, error)

	AddTags(ctx context.Context, id string, tags []types.Ref) error
	RemoveTags(ctx context.Context, id string, tags []types.Ref) error
	ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error)

	AddStates(ctx context.Context, id string, states []types.Ref) error
	RemoveStates(ctx context.Context, id string, states []types.Ref) error
	ValidateStates(ctx context.Context, states []types.Ref) ([]string, error)

	Raw() *aggregates.Repository
}

type workspaceRepo struct {
	aggregates.Typed[types.Workspace]
}

func NewWorkspaceRepo(deps aggregates.Deps) WorkspaceRepo {
	repo := aggregates.New(WorkspaceSchema, deps.Named("WorkspaceRepo"))
	return &workspaceRepo{Typed: aggregates.NewTyped[types.Workspace](repo)}
}

func (wr *workspaceRepo) Create(ctx context.Context, in types.WorkspaceInput) (*types.Workspace, error) {
	doc := docstore.Document{
		"name": in.Name,
		"slug": in.Slug,
	}
	putRef(doc, "owner", in.Owner)
	putRefs(doc, "members", in.Members)
	putRefs(doc, "projects", in.Projects)
	putRefs(doc, "tags", in.Tags)
	putRefs(doc, "states", in.States)
	return wr.Typed.Create(ctx, doc)
}

func (wr *workspaceRepo) AddOwner(ctx context.Context, id string, owner types.Ref) error {
	return wr.Raw().AddOne(ctx, id, "owner", owner)
}

// RemoveOwner always fails: a workspace cannot exist without an owner.
func (wr *workspaceRepo) RemoveOwner(ctx context.Context, id string) error {
	return wr.Raw().RemoveOne(ctx, id, "owner")
}

func (wr *workspaceRepo) AddMembers(ctx context.Context, id string, members []types.Ref) error {
	return wr.Raw().AddMany(ctx, id, "members", members)
}

func (wr *workspaceRepo) RemoveMembers(ctx context.Context, id string, members []types.Ref) error {
	return wr.Raw().RemoveMany(ctx, id, "members", members)
}

func (wr *workspaceRepo) ValidateMembers(ctx context.Context, members []types.Ref) ([]string, error) {
	return wr.Raw().ValidateMany(ctx, "members", members)
}

func (wr *workspaceRepo) AddProjects(ctx context.Context, id string, projects []types.Ref) error {
	return wr.Raw().AddMany(ctx, id, "projects", projects)
}

func (wr *workspaceRepo) RemoveProjects(ctx context.Context, id string, projects []types.Ref) error {
	return wr.Raw().RemoveMany(ctx, id, "projects", projects)
}

func (wr *workspaceRepo) ValidateProjects(ctx context.Context, projects []types.Ref) ([]string, error) {
	return wr.Raw().ValidateMany(ctx, "projects", projects)
}

func (wr *workspaceRepo) AddTags(ctx context.Context, id string, tags []types.Ref) error {
	return wr.Raw().AddMany(ctx, id, "tags", tags)
}

func (wr *workspaceRepo) RemoveTags(ctx context.Context, id string, tags []types.Ref) error {
	return wr.Raw().RemoveMany(ctx, id, "tags", tags)
}

func (wr *workspaceRepo) ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error) {
	return wr.Raw().ValidateMany(ctx, "tags", tags)
}

func (wr *workspaceRepo) AddStates(ctx context.Context, id string, states []types.Ref) error {
	return wr.Raw().AddMany(ctx, id, "states", states)
}

func (wr *workspaceRepo) RemoveStates(ctx context.Context, id string, states []types.Ref) error {
	return wr.Raw().RemoveMany(ctx, id, "states", states)
}

func (wr *workspaceRepo) ValidateStates(ctx context.Context, states []types.Ref) ([]string, error) {
	return wr.Raw().ValidateMany(ctx, "states", states)
}
