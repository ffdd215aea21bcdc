package user

import (
	"context"
	"time"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, in types.SessionInput) (*types.Session, error)
	GetByID(ctx context.Context, id string) (*types.Session, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Session], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Session, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	AddUser(ctx context.Context, id string, user types.Ref) error
	RemoveUser(ctx context.Context, id string) error
	Raw() *aggregates.Repository
}

type sessionRepo struct {
	aggregates.Typed[types.Session]
}

func NewSessionRepo(deps aggregates.Deps) SessionRepo {
	repo := aggregates.New(SessionSchema, deps.Named("SessionRepo"))
	return &sessionRepo{Typed: aggregates.NewTyped[types.Session](repo)}
}

func (sr *sessionRepo) Create(ctx context.Context, in types.SessionInput) (*types.Session, error) {
	doc := docstore.Document{
		"sessionToken": in.SessionToken,
	}
	if !in.Expires.IsZero() {
		doc["expires"] = in.Expires.UTC().Format(time.RFC3339Nano)
	}
	putRef(doc, "user", in.User)
	return sr.Typed.Create(ctx, doc)
}

func (sr *sessionRepo) AddUser(ctx context.Context, id string, user types.Ref) error {
	return sr.Raw().AddOne(ctx, id, "user", user)
}

func (sr *sessionRepo) RemoveUser(ctx context.Context, id string) error {
	return sr.Raw().RemoveOne(ctx, id, "user")
}
