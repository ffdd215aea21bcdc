package user

import (
	"strings"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

var UserSchema = aggregates.Schema{
	Collection: types.CollectionUsers,
	Fields: []aggregates.Field{
		{Name: "email", Kind: aggregates.KindString, Required: true, Format: "email"},
		{Name: "firstName", Kind: aggregates.KindString, Required: true},
		{Name: "lastName", Kind: aggregates.KindString},
		{Name: "displayName", Kind: aggregates.KindString},
		{Name: "avatarUrl", Kind: aggregates.KindString},
	},
}

var AccountSchema = aggregates.Schema{
	Collection: types.CollectionAccounts,
	Fields: []aggregates.Field{
		{Name: "provider", Kind: aggregates.KindString, Required: true},
		{Name: "providerAccountId", Kind: aggregates.KindString, Required: true},
		{Name: "type", Kind: aggregates.KindString},
	},
	Relations: []aggregates.Relation{
		{Name: "user", Target: types.CollectionUsers, Required: true},
	},
}

var SessionSchema = aggregates.Schema{
	Collection: types.CollectionSessions,
	Fields: []aggregates.Field{
		{Name: "sessionToken", Kind: aggregates.KindString, Required: true},
		{Name: "expires", Kind: aggregates.KindTime, Required: true},
	},
	Relations: []aggregates.Relation{
		{Name: "user", Target: types.CollectionUsers, Required: true},
	},
}

// putString sets key only when s carries content.
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
