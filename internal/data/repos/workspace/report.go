package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type ReportRepo interface {
	Create(ctx context.Context, in types.ReportInput) (*types.Report, error)
	GetByID(ctx context.Context, id string) (*types.Report, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Report], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Report, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Report, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)

	AddProject(ctx context.Context, id string, project types.Ref) error
	RemoveProject(ctx context.Context, id string) error
	AddAuthor(ctx context.Context, id string, author types.Ref) error
	RemoveAuthor(ctx context.Context, id string) error

	AddTags(ctx context.Context, id string, tags []types.Ref) error
	RemoveTags(ctx context.Context, id string, tags []types.Ref) error
	ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error)

	Raw() *aggregates.Repository
}

type reportRepo struct {
	aggregates.Typed[types.Report]
}

func NewReportRepo(deps aggregates.Deps) ReportRepo {
	repo := aggregates.New(ReportSchema, deps.Named("ReportRepo"))
	return &reportRepo{Typed: aggregates.NewTyped[types.Report](repo)}
}

func (rr *reportRepo) Create(ctx context.Context, in types.ReportInput) (*types.Report, error) {
	doc := docstore.Document{"title": in.Title}
	putString(doc, "body", in.Body)
	putString(doc, "status", in.Status)
	putRef(doc, "project", in.Project)
	putRef(doc, "author", in.Author)
	putRefs(doc, "tags", in.Tags)
	return rr.Typed.Create(ctx, doc)
}

func (rr *reportRepo) AddProject(ctx context.Context, id string, project types.Ref) error {
	return rr.Raw().AddOne(ctx, id, "project", project)
}

func (rr *reportRepo) RemoveProject(ctx context.Context, id string) error {
	return rr.Raw().RemoveOne(ctx, id, "project")
}

func (rr *reportRepo) AddAuthor(ctx context.Context, id string, author types.Ref) error {
	return rr.Raw().AddOne(ctx, id, "author", author)
}

func (rr *reportRepo) RemoveAuthor(ctx context.Context, id string) error {
	return rr.Raw().RemoveOne(ctx, id, "author")
}

func (rr *reportRepo) AddTags(ctx context.Context, id string, tags []types.Ref) error {
	return rr.Raw().AddMany(ctx, id, "tags", tags)
}

func (rr *reportRepo) RemoveTags(ctx context.Context, id string, tags []types.Ref) error {
	return rr.Raw().RemoveMany(ctx, id, "tags", tags)
}

func (rr *reportRepo) ValidateTags(ctx context.Context, tags []types.Ref) ([]string, error) {
	return rr.Raw().ValidateMany(ctx, "tags", tags)
}
