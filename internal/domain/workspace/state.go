package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

// State groups, in workflow order.
const (
	StateGroupBacklog   = "backlog"
	StateGroupUnstarted = "unstarted"
	StateGroupStarted   = "started"
	StateGroupCompleted = "completed"
	StateGroupCancelled = "cancelled"
)

var StateGroups = []string{
	StateGroupBacklog,
	StateGroupUnstarted,
	StateGroupStarted,
	StateGroupCompleted,
	StateGroupCancelled,
}

type State struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Group     string                       `json:"group"`
	Color     string                       `json:"color,omitempty"`
	Workspace domainagg.Related[Workspace] `json:"workspace"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (s State) AggregateID() string { return s.ID }

// Closed reports whether work in this state is finished one way or another.
func (s State) Closed() bool {
	return s.Group == StateGroupCompleted || s.Group == StateGroupCancelled
}

type StateInput struct {
	Name      string
	Group     string
	Color     string
	Workspace domainagg.Ref
}
