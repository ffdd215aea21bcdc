package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/workspace-backend/internal/data/repos"
	types "github.com/yungbote/workspace-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, reg *repos.Registry, email string) *types.User {
	tb.Helper()
	u, err := reg.Users.Create(ctx, types.UserInput{
		Email:     email,
		FirstName: "A",
		LastName:  "B",
	})
	if err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedWorkspace(tb testing.TB, ctx context.Context, reg *repos.Registry, owner *types.User) *types.Workspace {
	tb.Helper()
	ws, err := reg.Workspaces.Create(ctx, types.WorkspaceInput{
		Name:  "Acme",
		Slug:  "acme-" + uuid.NewString()[:8],
		Owner: types.ByID(owner.ID),
	})
	if err != nil {
		tb.Fatalf("seed workspace: %v", err)
	}
	return ws
}

func SeedMember(tb testing.TB, ctx context.Context, reg *repos.Registry, u *types.User, ws *types.Workspace, role string) *types.Member {
	tb.Helper()
	m, err := reg.Members.Create(ctx, types.MemberInput{
		Role:      role,
		User:      types.ByID(u.ID),
		Workspace: types.ByID(ws.ID),
	})
	if err != nil {
		tb.Fatalf("seed member: %v", err)
	}
	return m
}

func SeedTag(tb testing.TB, ctx context.Context, reg *repos.Registry, ws *types.Workspace, name string) *types.Tag {
	tb.Helper()
	tag, err := reg.Tags.Create(ctx, types.TagInput{
		Name:      name,
		Workspace: types.ByID(ws.ID),
	})
	if err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

func SeedProject(tb testing.TB, ctx context.Context, reg *repos.Registry, ws *types.Workspace, identifier string) *types.Project {
	tb.Helper()
	p, err := reg.Projects.Create(ctx, types.ProjectInput{
		Name:       "Project " + identifier,
		Identifier: identifier,
		Workspace:  types.ByID(ws.ID),
	})
	if err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}
