package user

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// Account links a user to an external identity provider.
type Account struct {
	ID                string                  `json:"id"`
	Provider          string                  `json:"provider"`
	ProviderAccountID string                  `json:"providerAccountId"`
	Type              string                  `json:"type,omitempty"`
	User              domainagg.Related[User] `json:"user"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
	DeletedAt         *time.Time              `json:"deletedAt,omitempty"`
}

func (a Account) AggregateID() string { return a.ID }

type AccountInput struct {
	Provider          string
	ProviderAccountID string
	Type              string
	User              domainagg.Ref
}
