package services

import (
	"testing"

	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/testutil"
)

func TestCreateProfile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		profile, err := svc.CreateProfile(user.ID)
		testutil.AssertNoError(t, err)
		if profile.UserID != user.ID {
			t.Errorf("expected profile for user %s, got %s", user.ID, profile.UserID)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateProfile(user.ID)
		testutil.AssertNoError(t, err)

		second, err := svc.CreateProfile(user.ID)
		testutil.AssertNoError(t, err)
		if second.ID != first.ID {
			t.Errorf("expected existing profile %s, got %s", first.ID, second.ID)
		}
	})
}

func TestListProfiles(t *testing.T) {
	t.Run("returns_all_profiles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user1.ID)
		testutil.CreateTestProfile(t, db, user2.ID)

		result, err := svc.ListProfiles(pagination.PageRequest{Page: 1, PageSize: 10})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 2 {
			t.Fatalf("expected 2 profiles, got %d", len(result.Data))
		}
		if result.Data[0].User.Username == "" {
			t.Error("expected user to be preloaded")
		}
	})
}

func TestGetProfileByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID)

		profile, err := svc.GetProfileByUsername(user.Username)
		testutil.AssertNoError(t, err)
		if profile.UserID != user.ID {
			t.Errorf("expected profile for user %s, got %s", user.ID, profile.UserID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		_, err := svc.GetProfileByUsername("nobody")
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("owner_can_edit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID)

		bio := "Saving for a house."
		profile, err := svc.UpdateProfile(user.ID, user.Username, &bio)
		testutil.AssertNoError(t, err)
		if profile.Bio != bio {
			t.Errorf("expected bio %q, got %q", bio, profile.Bio)
		}
	})

	t.Run("foreign_edit_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, owner.ID)

		bio := "hijacked"
		_, err := svc.UpdateProfile(intruder.ID, owner.Username, &bio)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestSetAvatar(t *testing.T) {
	t.Run("owner_can_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID)

		profile, err := svc.SetAvatar(user.ID, user.Username, "avatars/test.jpg")
		testutil.AssertNoError(t, err)
		if profile.Avatar != "avatars/test.jpg" {
			t.Errorf("expected avatar path to be stored, got %q", profile.Avatar)
		}
	})

	t.Run("foreign_set_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, owner.ID)

		_, err := svc.SetAvatar(intruder.ID, owner.Username, "avatars/evil.jpg")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
