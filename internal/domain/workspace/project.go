package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type Project struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Identifier  string                       `json:"identifier"`
	Description string                       `json:"description,omitempty"`
	Workspace   domainagg.Related[Workspace] `json:"workspace"`
	Lead        domainagg.Related[Member]    `json:"lead"`
	Members     []domainagg.Related[Member]  `json:"members"`
	States      []domainagg.Related[State]   `json:"states"`
	Tags        []domainagg.Related[Tag]     `json:"tags"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
	DeletedAt   *time.Time                   `json:"deletedAt,omitempty"`
}

func (p Project) AggregateID() string { return p.ID }

type ProjectInput struct {
	Name        string
	Identifier  string
	Description string
	Workspace   domainagg.Ref
	Lead        domainagg.Ref
	Members     []domainagg.Ref
	States      []domainagg.Ref
	Tags        []domainagg.Ref
}
