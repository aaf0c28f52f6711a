package profile_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/testutil"
)

func strptr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	db := testutil.TestDB(t)
	repo := profile.NewRepository(db)
	u := testutil.CreateTestUser(t, db, "alice@example.com", "alice")
	ctx := context.Background()

	created, err := repo.Create(ctx, u.ID, []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.AdditionalInfo != nil {
		t.Errorf("additionalInfo = %v on fresh profile, want nil", *created.AdditionalInfo)
	}

	got, err := repo.GetByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if !reflect.DeepEqual(got.Members, []string{"alice", "bob"}) {
		t.Errorf("members = %v, want [alice bob]", got.Members)
	}
}

func TestGetMissing(t *testing.T) {
	db := testutil.TestDB(t)
	repo := profile.NewRepository(db)

	if _, err := repo.GetByUserID(context.Background(), 42); !errors.Is(err, profile.ErrProfileNotFound) {
		t.Errorf("GetByUserID = %v, want ErrProfileNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	db := testutil.TestDB(t)
	repo := profile.NewRepository(db)
	u := testutil.CreateTestUser(t, db, "alice@example.com", "alice")
	ctx := context.Background()

	if _, err := repo.Create(ctx, u.ID, []string{"alice"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.Update(ctx, u.ID, profile.UpdateProfileInput{
		Members:        []string{"alice", "bob"},
		AdditionalInfo: strptr("movie night is Friday"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.AdditionalInfo == nil || *updated.AdditionalInfo != "movie night is Friday" {
		t.Errorf("additionalInfo = %v", updated.AdditionalInfo)
	}

	// Clearing the info nulls the column; untouched members survive.
	updated, err = repo.Update(ctx, u.ID, profile.UpdateProfileInput{ClearInfo: true})
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if updated.AdditionalInfo != nil {
		t.Errorf("additionalInfo = %v after clear, want nil", *updated.AdditionalInfo)
	}

	got, err := repo.GetByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if !reflect.DeepEqual(got.Members, []string{"alice", "bob"}) {
		t.Errorf("members = %v, want [alice bob]", got.Members)
	}
	if got.AdditionalInfo != nil {
		t.Errorf("persisted additionalInfo = %v after clear, want nil", *got.AdditionalInfo)
	}
}

func TestUpdateMissing(t *testing.T) {
	db := testutil.TestDB(t)
	repo := profile.NewRepository(db)

	_, err := repo.Update(context.Background(), 42, profile.UpdateProfileInput{Members: []string{"x"}})
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Errorf("Update = %v, want ErrProfileNotFound", err)
	}
}
