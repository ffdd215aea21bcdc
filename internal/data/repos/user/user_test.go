package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	"github.com/yungbote/workspace-backend/internal/data/repos/testutil"
	types "github.com/yungbote/workspace-backend/internal/domain"
	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

func TestUserRepo(t *testing.T) {
	reg := testutil.Registry(t, testutil.Memory(t))
	repo := reg.Users
	ctx := context.Background()

	created, err := repo.Create(ctx, types.UserInput{
		Email:     "userrepo@example.com",
		FirstName: "A",
		LastName:  "B",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("Create: unexpected user %+v", created)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if *got != *created {
		t.Fatalf("GetByID: want %+v got %+v", created, got)
	}

	byEmail, err := repo.GetByEmail(ctx, created.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("GetByEmail: unexpected result: %+v", byEmail)
	}

	_, err = repo.GetByEmail(ctx, "does-not-exist@example.com")
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("GetByEmail missing: expected not found, got %v", err)
	}

	exists, err := repo.Exists(ctx, created.ID)
	if err != nil || !exists {
		t.Fatalf("Exists: exists=%v err=%v", exists, err)
	}

	updated, err := repo.UpdateByID(ctx, created.ID, docstore.Document{"displayName": "AB"})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.DisplayName != "AB" || updated.FirstName != "A" {
		t.Fatalf("UpdateByID: unexpected result: %+v", updated)
	}

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	exists, err = repo.Exists(ctx, created.ID)
	if err != nil || exists {
		t.Fatalf("Exists after delete: exists=%v err=%v", exists, err)
	}
}

func TestUserRepoRejectsInvalidEmail(t *testing.T) {
	reg := testutil.Registry(t, testutil.Memory(t))
	_, err := reg.Users.Create(context.Background(), types.UserInput{Email: "nope", FirstName: "A"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("expected data_validation, got %v", err)
	}
}

func TestUserRepoRejectsInvalidEmailOnUpdate(t *testing.T) {
	reg := testutil.Registry(t, testutil.Memory(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, reg, "keep@example.com")

	_, err := reg.Users.UpdateByID(ctx, u.ID, docstore.Document{"email": "not-an-email"})
	if !domainagg.IsCode(err, domainagg.CodeDataValidation) {
		t.Fatalf("expected data_validation, got %v", err)
	}
	got, err := reg.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "keep@example.com" {
		t.Fatalf("email overwritten: %s", got.Email)
	}
}

func TestUserQueryByTimestamp(t *testing.T) {
	for name, store := range map[string]docstore.Store{
		"memory": testutil.Memory(t),
		"sqlite": testutil.SQLite(t),
	} {
		t.Run(name, func(t *testing.T) {
			reg := testutil.Registry(t, store)
			ctx := context.Background()
			u := testutil.SeedUser(t, ctx, reg, "clock@example.com")

			for _, field := range []string{"createdAt", "updatedAt"} {
				page, err := reg.Users.Query(ctx, docstore.Filter{field: u.CreatedAt}, 0, 10)
				if err != nil {
					t.Fatalf("%s: %v", field, err)
				}
				if len(page.Results) != 1 || page.Results[0].ID != u.ID {
					t.Fatalf("%s: unexpected results %+v", field, page.Results)
				}
			}
			_, err := reg.Users.Query(ctx, docstore.Filter{"createdAt": u.CreatedAt.Add(time.Hour)}, 0, 10)
			if !domainagg.IsCode(err, domainagg.CodeNotFound) {
				t.Fatalf("expected aggregate_not_found, got %v", err)
			}
		})
	}
}

func TestAccountAndSessionResolveUser(t *testing.T) {
	reg := testutil.Registry(t, testutil.SQLite(t))
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, reg, "acct@example.com")

	acct, err := reg.Accounts.Create(ctx, types.AccountInput{
		Provider:          "github",
		ProviderAccountID: "12345",
		Type:              "oauth",
		User:              types.ByValue(u),
	})
	if err != nil {
		t.Fatalf("Accounts.Create: %v", err)
	}
	if !acct.User.Populated() || acct.User.Value.Email != u.Email {
		t.Fatalf("account user not populated: %+v", acct.User)
	}

	_, err = reg.Accounts.Create(ctx, types.AccountInput{
		Provider:          "github",
		ProviderAccountID: "999",
		User:              types.ByID(uuid.NewString()),
	})
	if typed, ok := domainagg.As(err); !ok || typed.Code != domainagg.CodeReferenceNotFound || typed.Field != "user" {
		t.Fatalf("expected reference_not_found on user, got %v", err)
	}

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sess, err := reg.Sessions.Create(ctx, types.SessionInput{
		SessionToken: "tok",
		Expires:      expires,
		User:         types.ByID(u.ID),
	})
	if err != nil {
		t.Fatalf("Sessions.Create: %v", err)
	}
	if !sess.Expires.Equal(expires) || sess.Expired(expires.Add(-time.Hour)) {
		t.Fatalf("session expiry: %+v", sess)
	}
	if sess.User.ID != u.ID {
		t.Fatalf("session user: %+v", sess.User)
	}

	if err := reg.Sessions.RemoveUser(ctx, sess.ID); !domainagg.IsCode(err, domainagg.CodeInvalidOperation) {
		t.Fatalf("RemoveUser on required relation: expected invalid_operation, got %v", err)
	}

	other := testutil.SeedUser(t, ctx, reg, "other@example.com")
	if err := reg.Sessions.AddUser(ctx, sess.ID, types.ByID(other.ID)); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	sess, err = reg.Sessions.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if sess.User.ID != other.ID {
		t.Fatalf("session user after AddUser: %+v", sess.User)
	}
}
