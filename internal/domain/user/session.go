package user

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

type Session struct {
	ID           string                  `json:"id"`
	SessionToken string                  `json:"sessionToken"`
	Expires      time.Time               `json:"expires"`
	User         domainagg.Related[User] `json:"user"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
	DeletedAt    *time.Time              `json:"deletedAt,omitempty"`
}

func (s Session) AggregateID() string { return s.ID }

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool { return !s.Expires.After(now) }

type SessionInput struct {
	SessionToken string
	Expires      time.Time
	User         domainagg.Ref
}
