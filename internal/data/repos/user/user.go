package user

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, in types.UserInput) (*types.User, error)
	GetByID(ctx context.Context, id string) (*types.User, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.User], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.User, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.User, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	Raw() *aggregates.Repository
}

type userRepo struct {
	aggregates.Typed[types.User]
}

func NewUserRepo(deps aggregates.Deps) UserRepo {
	repo := aggregates.New(UserSchema, deps.Named("UserRepo"))
	return &userRepo{Typed: aggregates.NewTyped[types.User](repo)}
}

func (ur *userRepo) Create(ctx context.Context, in types.UserInput) (*types.User, error) {
	doc := docstore.Document{
		"email":     in.Email,
		"firstName": in.FirstName,
	}
	putString(doc, "lastName", in.LastName)
	putString(doc, "displayName", in.DisplayName)
	putString(doc, "avatarUrl", in.AvatarURL)
	return ur.Typed.Create(ctx, doc)
}

// GetByEmail returns the single user registered under email.
func (ur *userRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	page, err := ur.Query(ctx, docstore.Filter{"email": email}, 0, 1)
	if err != nil {
		return nil, err
	}
	return page.Results[0], nil
}
