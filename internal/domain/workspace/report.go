package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/domain/user"
)

type Report struct {
	ID        string                       `json:"id"`
	Title     string                       `json:"title"`
	Body      string                       `json:"body,omitempty"`
	Status    string                       `json:"status,omitempty"`
	Project   domainagg.Related[Project]   `json:"project"`
	Author    domainagg.Related[user.User] `json:"author"`
	Tags      []domainagg.Related[Tag]     `json:"tags"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (r Report) AggregateID() string { return r.ID }

type ReportInput struct {
	Title   string
	Body    string
	Status  string
	Project domainagg.Ref
	Author  domainagg.Ref
	Tags    []domainagg.Ref
}
