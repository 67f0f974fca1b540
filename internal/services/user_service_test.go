package services

import (
	"testing"

	"budgetbuddy/internal/models"
	"budgetbuddy/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if !user.IsActive {
			t.Error("expected new user to be active")
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "alice@example.com", "password123", false, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("alice", "other@example.com", "password123", false, false)
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("duplicate_email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob", "Alice@Example.com", "password123", false, false)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("alice", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("alice", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "alice@example.com", "password123", false, false)
		testutil.AssertNoError(t, err)
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}

		_, err = svc.AttemptLogin("alice", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		email := "new@example.com"
		staff := true
		updated, err := svc.UpdateUser(user.Username, &email, nil, &staff)
		testutil.AssertNoError(t, err)

		if updated.Email != email {
			t.Errorf("expected email %s, got %s", email, updated.Email)
		}
		if !updated.IsStaff {
			t.Error("expected is_staff to be set")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateUser(user2.Username, &user1.Email, nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		email := "new@example.com"
		_, err := svc.UpdateUser("nobody", &email, nil, nil)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("removes_user_and_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID)

		err := svc.DeleteUser(user.Username)
		testutil.AssertNoError(t, err)

		_, err = svc.GetUserByUsername(user.Username)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		var count int64
		db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected profile to be deleted, found %d", count)
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.StoreRefreshTokenHash(user.ID, "abc123")
		testutil.AssertNoError(t, err)

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123" {
			t.Errorf("expected hash abc123, got %s", hash)
		}
	})

	t.Run("rotation_replaces_previous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "first"))
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "second"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "second" {
			t.Errorf("expected hash second, got %s", hash)
		}
	})
}
