package workspace

import (
	"context"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

type WebhookRepo interface {
	Create(ctx context.Context, in types.WebhookInput) (*types.Webhook, error)
	GetByID(ctx context.Context, id string) (*types.Webhook, error)
	Query(ctx context.Context, filter docstore.Filter, page, itemsPerPage int) (*aggregates.TypedPage[types.Webhook], error)
	UpdateByID(ctx context.Context, id string, patch docstore.Document) (*types.Webhook, error)
	UpdateWithFilter(ctx context.Context, filter docstore.Filter, patch docstore.Document) (*types.Webhook, error)
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	AllExist(ctx context.Context, ids []string) (bool, error)
	AddWorkspace(ctx context.Context, id string, ws types.Ref) error
	RemoveWorkspace(ctx context.Context, id string) error
	// ActiveFor lists the active hooks of a workspace.
	ActiveFor(ctx context.Context, workspaceID string) ([]*types.Webhook, error)
	Raw() *aggregates.Repository
}

type webhookRepo struct {
	aggregates.Typed[types.Webhook]
}

func NewWebhookRepo(deps aggregates.Deps) WebhookRepo {
	repo := aggregates.New(WebhookSchema, deps.Named("WebhookRepo"))
	return &webhookRepo{Typed: aggregates.NewTyped[types.Webhook](repo)}
}

func (wr *webhookRepo) Create(ctx context.Context, in types.WebhookInput) (*types.Webhook, error) {
	events := in.Events
	if events == nil {
		events = []string{}
	}
	doc := docstore.Document{
		"url":      in.URL,
		"events":   events,
		"isActive": in.IsActive,
	}
	putString(doc, "secret", in.Secret)
	putRef(doc, "workspace", in.Workspace)
	return wr.Typed.Create(ctx, doc)
}

func (wr *webhookRepo) AddWorkspace(ctx context.Context, id string, ws types.Ref) error {
	return wr.Raw().AddOne(ctx, id, "workspace", ws)
}

func (wr *webhookRepo) RemoveWorkspace(ctx context.Context, id string) error {
	return wr.Raw().RemoveOne(ctx, id, "workspace")
}

func (wr *webhookRepo) ActiveFor(ctx context.Context, workspaceID string) ([]*types.Webhook, error) {
	filter := docstore.Filter{"workspace": workspaceID, "isActive": true}
	var out []*types.Webhook
	for page := 0; ; page++ {
		res, err := wr.Query(ctx, filter, page, aggregates.DefaultItemsPerPage)
		if err != nil {
			if page == 0 && aggregates.IsNotFound(err) {
				return []*types.Webhook{}, nil
			}
			return nil, err
		}
		out = append(out, res.Results...)
		if int64(len(out)) >= res.NumberOfItems || len(res.Results) == 0 {
			return out, nil
		}
	}
}
