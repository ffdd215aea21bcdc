package user

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type AccountRepo interface {
	Create(ctx context.Context, in types.AccountInput) (*types.Account, error)
	GetByID(ctx context.Context, id string) (*types.Account, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Account], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Account, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Account, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	AddUser(ctx context.Context, id string, user types.Ref) error
	RemoveUser(ctx context.Context, id string) error
	Raw() *aggregates.Repository
}

type accountRepo struct {
	aggregates.Typed[types.Account]
}

func NewAccountRepo(deps aggregates.Deps) AccountRepo {
	repo := aggregates.New(AccountSchema, deps.Named("AccountRepo"))
	return &accountRepo{Typed: aggregates.NewTyped[types.Account](repo)}
}

func (ar *accountRepo) Create(ctx context.Context, in types.AccountInput) (*types.Account, error) {
	doc := docstore.Document{
		"provider":          in.Provider,
		"providerAccountId": in.ProviderAccountID,
	}
	putString(doc, "type", in.Type)
	putRef(doc, "user", in.User)
	return ar.Typed.Create(ctx, doc)
}

func (ar *accountRepo) AddUser(ctx context.Context, id string, user types.Ref) error {
	return ar.Raw().AddOne(ctx, id, "user", user)
}

func (ar *accountRepo) RemoveUser(ctx context.Context, id string) error {
	return ar.Raw().RemoveOne(ctx, id, "user")
}
