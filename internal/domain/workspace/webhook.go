package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// Webhook delivers change events for a workspace to an external URL.
type Webhook struct {
	ID        string                       `json:"id"`
	URL       string                       `json:"url"`
	Secret    string                       `json:"secret,omitempty"`
	Events    []string                     `json:"events"`
	IsActive  bool                         `json:"isActive"`
	Workspace domainagg.Related[Workspace] `json:"workspace"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (w Webhook) AggregateID() string { return w.ID }

// Wants reports whether the hook subscribes to action. An empty event list
// subscribes to everything.
func (w Webhook) Wants(action string) bool {
	if !w.IsActive {
		return false
	}
	if len(w.Events) == 0 {
		return true
	}
	for _, e := range w.Events {
		if e == action {
			return true
		}
	}
	return false
}

type WebhookInput struct {
	URL       string
	Secret    string
	Events    []string
	IsActive  bool
	Workspace domainagg.Ref
}
