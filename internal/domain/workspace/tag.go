package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type Tag struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Color     string                       `json:"color,omitempty"`
	Workspace domainagg.Related[Workspace] `json:"workspace"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (t Tag) AggregateID() string { return t.ID }

type TagInput struct {
	Name      string
	Color     string
	Workspace domainagg.Ref
}
