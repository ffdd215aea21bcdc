package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, in types.ProjectInput) (*types.Project, error)
	GetByID(ctx context.Context, id string) (*types.Project, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Project], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Project, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Project, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)

	AddWorkspace(ctx context.Context, id string, ws types.Ref) error
	RemoveWorkspace(ctx context.Context, id string) error
	AddLead(ctx context.Context, id string, lead types.Ref) error
	RemoveLead(ctx context.Context, id string) error

	AddMembers(ctx context.Context, id string, members []types.Ref) error
	RemoveMembers(ctx context.Context, id string, members []types.Ref) error
	ValidateMembers(ctx context.Context, members []types.Ref) ([]string, error)

	AddStates(ctx context.Context, id string, states []types.Ref) error
	RemoveStates(ctx context.Context, id string, states []types.Ref) error
	ValidateStates(ctx context.Context, states []types.Ref) ([]string, error)

	AddTags(ctx context.Context, id string, tags []types.Ref) error
	RemoveTags(ctx context.Context, id string, tags []types.Ref) error
	ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error)

	Raw() *aggregates.Repository
}

type projectRepo struct {
	aggregates.Typed[types.Project]
}

func NewProjectRepo(deps aggregates.Deps) ProjectRepo {
	repo := aggregates.New(ProjectSchema, deps.Named("ProjectRepo"))
	return &projectRepo{Typed: aggregates.NewTyped[types.Project](repo)}
}

func (pr *projectRepo) Create(ctx context.Context, in types.ProjectInput) (*types.Project, error) {
	doc := docstore.Document{
		"name":       in.Name,
		"identifier": in.Identifier,
	}
	putString(doc, "description", in.Description)
	putRef(doc, "workspace", in.Workspace)
	putRef(doc, "lead", in.Lead)
	putRefs(doc, "members", in.Members)
	putRefs(doc, "states", in.States)
	putRefs(doc, "tags", in.Tags)
	return pr.Typed.Create(ctx, doc)
}

func (pr *projectRepo) AddWorkspace(ctx context.Context, id string, ws types.Ref) error {
	return pr.Raw().AddOne(ctx, id, "workspace", ws)
}

func (pr *projectRepo) RemoveWorkspace(ctx context.Context, id string) error {
	return pr.Raw().RemoveOne(ctx, id, "workspace")
}

func (pr *projectRepo) AddLead(ctx context.Context, id string, lead types.Ref) error {
	return pr.Raw().AddOne(ctx, id, "lead", lead)
}

func (pr *projectRepo) RemoveLead(ctx context.Context, id string) error {
	return pr.Raw().RemoveOne(ctx, id, "lead")
}

func (pr *projectRepo) AddMembers(ctx context.Context, id string, members []types.Ref) error {
	return pr.Raw().AddMany(ctx, id, "members", members)
}

func (pr *projectRepo) RemoveMembers(ctx context.Context, id string, members []types.Ref) error {
	return pr.Raw().RemoveMany(ctx, id, "members", members)
}

func (pr *projectRepo) ValidateMembers(ctx context.Context, members []types.Ref) ([]string, error) {
	return pr.Raw().ValidateMany(ctx, "members", members)
}

func (pr *projectRepo) AddStates(ctx context.Context, id string, states []types.Ref) error {
	return pr.Raw().AddMany(ctx, id, "states", states)
}

func (pr *projectRepo) RemoveStates(ctx context.Context, id string, states []types.Ref) error {
	return pr.Raw().RemoveMany(ctx, id, "states", states)
}

func (pr *projectRepo) ValidateStates(ctx context.Context, states []types.Ref) ([]string, error) {
	return pr.Raw().ValidateMany(ctx, "states", states)
}

func (pr *projectRepo) AddTags(ctx context.Context, id string, tags []types.Ref) error {
	return pr.Raw().AddMany(ctx, id, "tags", tags)
}

func (pr *projectRepo) RemoveTags(ctx context.Context, id string, tags []types.Ref) error {
	return pr.Raw().RemoveMany(ctx, id, "tags", tags)
}

func (pr *projectRepo) ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error) {
	return pr.Raw().ValidateMany(ctx, "tags", tags)
}
