package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type MemberRepo interface {
	Create(ctx context.Context, in types.MemberInput) (*types.Member, error)
	GetByID(ctx context.Context, id string) (*types.Member, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Member], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Member, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Member, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)

	AddUser(ctx context.Context, id string, user types.Ref) error
	RemoveUser(ctx context.Context, id string) error
	AddWorkspace(ctx context.Context, id string, ws types.Ref) error
	RemoveWorkspace(ctx context.Context, id string) error

	Raw() *aggregates.Repository
}

type memberRepo struct {
	aggregates.Typed[types.Member]
}

func NewMemberRepo(deps aggregates.Deps) MemberRepo {
	repo := aggregates.New(MemberSchema, deps.Named("MemberRepo"))
	return &memberRepo{Typed: aggregates.NewTyped[types.Member](repo)}
}

func (mr *memberRepo) Create(ctx context.Context, in types.MemberInput) (*types.Member, error) {
	doc := docstore.Document{"role": in.Role}
	putRef(doc, "user", in.User)
	putRef(doc, "workspace", in.Workspace)
	return mr.Typed.Create(ctx, doc)
}

func (mr *memberRepo) AddUser(ctx context.Context, id string, user types.Ref) error {
	return mr.Raw().AddOne(ctx, id, "user", user)
}

func (mr *memberRepo) RemoveUser(ctx context.Context, id string) error {
	return mr.Raw().RemoveOne(ctx, id, "user")
}

func (mr *memberRepo) AddWorkspace(ctx context.Context, id string, ws types.Ref) error {
	return mr.Raw().AddOne(ctx, id, "workspace", ws)
}

func (mr *memberRepo) RemoveWorkspace(ctx context.Context, id string) error {
	return mr.Raw().RemoveOne(ctx, id, "workspace")
}
