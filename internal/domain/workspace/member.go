package workspace

import (
	"time"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/domain/user"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleGuest  = "guest"
)

// Roles lists every member role in privilege order.
var Roles = []string{RoleAdmin, RoleMember, RoleGuest}

type Member struct {
	ID        string                       `json:"id"`
	Role      string                       `json:"role"`
	User      domainagg.Related[user.User] `json:"user"`
	Workspace domainagg.Related[Workspace] `json:"workspace"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	DeletedAt *time.Time                   `json:"deletedAt,omitempty"`
}

func (m Member) AggregateID() string { return m.ID }

func (m Member) IsAdmin() bool { return m.Role == RoleAdmin }

type MemberInput struct {
	Role      string
	User      domainagg.Ref
	Workspace domainagg.Ref
}
