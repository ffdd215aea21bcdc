package workspace

import (
	"regexp"
	"strings"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
	"github.com/yungbote/workspace-backend/internal/domain/workspace"
)

var (
	slugPattern       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	identifierPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`)
)

var WorkspaceSchema = aggregates.Schema{
	Collection: types.CollectionWorkspaces,
	Fields: []aggregates.Field{
		{Name: "name", Kind: aggregates.KindString, Required: true},
		{Name: "slug", Kind: aggregates.KindString, Required: true, Pattern: slugPattern},
	},
	Relations: []aggregates.Relation{
		{Name: "owner", Target: types.CollectionUsers, Required: true},
		{Name: "members", Target: types.CollectionMembers, Many: true},
		{Name: "projects", Target: types.CollectionProjects, Many: true},
		{Name: "tags", Target: types.CollectionTags, Many: true},
		{Name: "states", Target: types.CollectionStates, Many: true},
	},
}

var MemberSchema = aggregates.Schema{
	Collection: types.CollectionMembers,
	Fields: []aggregates.Field{
		{Name: "role", Kind: aggregates.KindString, Required: true, Enum: workspace.Roles},
	},
	Relations: []aggregates.Relation{
		{Name: "user", Target: types.CollectionUsers, Required: true},
		{Name: "workspace", Target: types.CollectionWorkspaces},
	},
}

var ProjectSchema = aggregates.Schema{
	Collection: types.CollectionProjects,
	Fields: []aggregates.Field{
		{Name: "name", Kind: aggregates.KindString, Required: true},
		{Name: "identifier", Kind: aggregates.KindString, Required: true, Pattern: identifierPattern},
		{Name: "description", Kind: aggregates.KindString},
	},
	Relations: []aggregates.Relation{
		{Name: "workspace", Target: types.CollectionWorkspaces, Required: true},
		{Name: "lead", Target: types.CollectionMembers},
		{Name: "members", Target: types.CollectionMembers, Many: true},
		{Name: "states", Target: types.CollectionStates, Many: true},
		{Name: "tags", Target: types.CollectionTags, Many: true},
	},
}

var TagSchema = aggregates.Schema{
	Collection: types.CollectionTags,
	Fields: []aggregates.Field{
		{Name: "name", Kind: aggregates.KindString, Required: true},
		{Name: "color", Kind: aggregates.KindString, Format: "hexcolor"},
	},
	Relations: []aggregates.Relation{
		{Name: "workspace", Target: types.CollectionWorkspaces},
	},
}

var StateSchema = aggregates.Schema{
	Collection: types.CollectionStates,
	Fields: []aggregates.Field{
		{Name: "name", Kind: aggregates.KindString, Required: true},
		{Name: "group", Kind: aggregates.KindString, Required: true, Enum: workspace.StateGroups},
		{Name: "color", Kind: aggregates.KindString, Format: "hexcolor"},
	},
	Relations: []aggregates.Relation{
		{Name: "workspace", Target: types.CollectionWorkspaces},
	},
}

var ReportSchema = aggregates.Schema{
	Collection: types.CollectionReports,
	Fields: []aggregates.Field{
		{Name: "title", Kind: aggregates.KindString, Required: true},
		{Name: "body", Kind: aggregates.KindString},
		{Name: "status", Kind: aggregates.KindString},
	},
	Relations: []aggregates.Relation{
		{Name: "project", Target: types.CollectionProjects, Required: true},
		{Name: "author", Target: types.CollectionUsers, Required: true},
		{Name: "tags", Target: types.CollectionTags, Many: true},
	},
}

var WebhookSchema = aggregates.Schema{
	Collection: types.CollectionWebhooks,
	Fields: []aggregates.Field{
		{Name: "url", Kind: aggregates.KindString, Required: true, Format: "http_url"},
		{Name: "secret", Kind: aggregates.KindString},
		{Name: "events", Kind: aggregates.KindStringList},
		{Name: "isActive", Kind: aggregates.KindBool},
	},
	Relations: []aggregates.Relation{
		{Name: "workspace", Target: types.CollectionWorkspaces, Required: true},
	},
}

func putString(doc docstore.Document, key, s string) {
	if strings.TrimSpace(s) != "" {
		doc[key] = s
	}
}

func putRef(doc docstore.Document, key string, ref types.Ref) {
	if !ref.IsZero() {
		doc[key] = ref
	}
}

func putRefs(doc docstore.Document, key string, refs []types.Ref) {
	if refs != nil {
		doc[key] = refs
	}
}
