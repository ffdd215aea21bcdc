package repos

import (
	"sort"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/repos/user"
	"github.com/yungbote/workspace-backend/internal/data/repos/workspace"
)

type UserRepo = user.UserRepo
type AccountRepo = user.AccountRepo
type SessionRepo = user.SessionRepo

type WorkspaceRepo = workspace.WorkspaceRepo
type MemberRepo = workspace.MemberRepo
type ProjectRepo = workspace.ProjectRepo
type TagRepo = workspace.TagRepo
type StateRepo = workspace.StateRepo
type ReportRepo = workspace.ReportRepo
type WebhookRepo = workspace.WebhookRepo

// Registry owns one repository per collection and resolves cross-collection
// references for all of them. It is built once per process and passed
// around explicitly.
type Registry struct {
	Users      UserRepo
	Accounts   AccountRepo
	Sessions   SessionRepo
	Workspaces WorkspaceRepo
	Members    MemberRepo
	Projects   ProjectRepo
	Tags       TagRepo
	States     StateRepo
	Reports    ReportRepo
	Webhooks   WebhookRepo

	byCollection map[string]*aggregates.Repository
}

var _ aggregates.Catalog = (*Registry)(nil)

// NewRegistry wires every repository against deps. deps.Catalog is ignored;
// the registry itself serves as the catalog.
func NewRegistry(deps aggregates.Deps) *Registry {
	reg := &Registry{byCollection: map[string]*aggregates.Repository{}}
	deps.Catalog = reg

	reg.Users = user.NewUserRepo(deps)
	reg.Accounts = user.NewAccountRepo(deps)
	reg.Sessions = user.NewSessionRepo(deps)
	reg.Workspaces = workspace.NewWorkspaceRepo(deps)
	reg.Members = workspace.NewMemberRepo(deps)
	reg.Projects = workspace.NewProjectRepo(deps)
	reg.Tags = workspace.NewTagRepo(deps)
	reg.States = workspace.NewStateRepo(deps)
	reg.Reports = workspace.NewReportRepo(deps)
	reg.Webhooks = workspace.NewWebhookRepo(deps)

	for _, r := range []interface{ Raw() *aggregates.Repository }{
		reg.Users, reg.Accounts, reg.Sessions,
		reg.Workspaces, reg.Members, reg.Projects,
		reg.Tags, reg.States, reg.Reports, reg.Webhooks,
	} {
		raw := r.Raw()
		reg.byCollection[raw.Collection()] = raw
	}
	return reg
}

// Checker implements aggregates.Catalog.
func (r *Registry) Checker(collection string) (aggregates.ExistenceChecker, bool) {
	repo, ok := r.byCollection[collection]
	if !ok {
		return nil, false
	}
	return repo, true
}

// Lookup returns the untyped repository for a collection.
func (r *Registry) Lookup(collection string) (*aggregates.Repository, bool) {
	repo, ok := r.byCollection[collection]
	return repo, ok
}

// Collections lists every registered collection, sorted.
func (r *Registry) Collections() []string {
	out := make([]string, 0, len(r.byCollection))
	for c := range r.byCollection {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
