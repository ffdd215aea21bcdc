package domain

import (
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
	"github.com/yungbote/workspace-backend/internal/domain/user"
	"github.com/yungbote/workspace-backend/internal/domain/workspace"
)

// Collection names as stored in the document store.
const (
	CollectionUsers      = "users"
	CollectionAccounts   = "accounts"
	CollectionSessions   = "sessions"
	CollectionWorkspaces = "workspaces"
	CollectionMembers    = "members"
	CollectionProjects   = "projects"
	CollectionTags       = "tags"
	CollectionStates     = "states"
	CollectionReports    = "reports"
	CollectionWebhooks   = "webhooks"
)

type Ref = domainagg.Ref

type User = user.User
type UserInput = user.UserInput
type Account = user.Account
type AccountInput = user.AccountInput
type Session = user.Session
type SessionInput = user.SessionInput

type Workspace = workspace.Workspace
type WorkspaceInput = workspace.WorkspaceInput
type Member = workspace.Member
type MemberInput = workspace.MemberInput
type Project = workspace.Project
type ProjectInput = workspace.ProjectInput
type Tag = workspace.Tag
type TagInput = workspace.TagInput
type State = workspace.State
type StateInput = workspace.StateInput
type Report = workspace.Report
type ReportInput = workspace.ReportInput
type Webhook = workspace.Webhook
type WebhookInput = workspace.WebhookInput

var (
	ByID    = domainagg.ByID
	ByValue = domainagg.ByValue
	ByIDs   = domainagg.ByIDs
)
