package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/domain/user"
)

// Workspace is the tenant root. Every other workspace-scoped aggregate
// points back at one.
type Workspace struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Slug      string                       `json:"slug"`
	Owner     domainagg.Related[user.User] `json:"owner"`
	Members   []domainagg.Related[Member]  `json:"members"`
	Projects  []domainagg.Related[Project] `json:"projects"`
	Tags      []domainagg.Related[Tag]     `json:"tags"`
	States    []domainagg.Related[State]   `json:"states"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (w Workspace) AggregateID() string { return w.ID }

type WorkspaceInput struct {
	Name     string
	Slug     string
	Owner    domainagg.Ref
	Members  []domainagg.Ref
	Projects []domainagg.Ref
	Tags     []domainagg.Ref
	States   []domainagg.Ref
}
