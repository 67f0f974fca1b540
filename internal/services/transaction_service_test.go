package services

import (
	"testing"
	"time"

	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		created, err := svc.CreateTransaction(user.ID, date, 42.50, "weekly groceries", nil, nil)
		testutil.AssertNoError(t, err)

		if created.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if created.Amount != 42.50 {
			t.Errorf("expected amount 42.50, got %f", created.Amount)
		}
		if !created.Date.Equal(date) {
			t.Errorf("expected date %v, got %v", date, created.Date)
		}
	})

	t.Run("zero_date_defaults_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		created, err := svc.CreateTransaction(user.ID, time.Time{}, 10, "coffee", nil, nil)
		testutil.AssertNoError(t, err)

		if created.Date.IsZero() {
			t.Error("expected a defaulted date, got zero")
		}
		if time.Since(created.Date) > time.Minute {
			t.Errorf("expected a recent date, got %v", created.Date)
		}
	})

	t.Run("empty_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, time.Now(), 10, "", nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, "food", 500)

		created, err := svc.CreateTransaction(user.ID, time.Now(), 25, "lunch", nil, &category.ID)
		testutil.AssertNoError(t, err)
		if created.CategoryID == nil || *created.CategoryID != category.ID {
			t.Errorf("expected category %s, got %v", category.ID, created.CategoryID)
		}
	})

	t.Run("foreign_category_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, other.ID, "food", 500)

		_, err := svc.CreateTransaction(user.ID, time.Now(), 25, "lunch", nil, &foreign.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("returns_user_transactions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, 10, nil)
		testutil.CreateTestTransaction(t, db, user1.ID, 20, nil)
		testutil.CreateTestTransaction(t, db, user2.ID, 30, nil)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.ListTransactions(user1.ID, page, ListOptions{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions for user1, got %d", result.TotalItems)
		}
	})

	t.Run("search_by_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, time.Now(), 10, "Morning coffee", nil, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, time.Now(), 900, "rent", nil, nil)
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.ListTransactions(user.ID, page, ListOptions{Search: "coffee"})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", result.TotalItems)
		}
		if result.Data[0].Description != "Morning coffee" {
			t.Errorf("expected Morning coffee, got %s", result.Data[0].Description)
		}
	})

	t.Run("ordering_by_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, 30, nil)
		testutil.CreateTestTransaction(t, db, user.ID, 10, nil)
		testutil.CreateTestTransaction(t, db, user.ID, 20, nil)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.ListTransactions(user.ID, page, ListOptions{Ordering: "amount"})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(result.Data))
		}
		if result.Data[0].Amount != 10 || result.Data[2].Amount != 30 {
			t.Errorf("unexpected order: %f, %f, %f",
				result.Data[0].Amount, result.Data[1].Amount, result.Data[2].Amount)
		}
	})

	t.Run("ordering_by_category_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		food := testutil.CreateTestCategory(t, db, user.ID, "food", 500)
		rent := testutil.CreateTestCategory(t, db, user.ID, "rent", 900)
		testutil.CreateTestTransaction(t, db, user.ID, 900, &rent.ID)
		testutil.CreateTestTransaction(t, db, user.ID, 25, &food.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.ListTransactions(user.ID, page, ListOptions{Ordering: "category__name"})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(result.Data))
		}
		if result.Data[0].Amount != 25 {
			t.Errorf("expected the food transaction first, got amount %f", result.Data[0].Amount)
		}
	})

	t.Run("unsupported_ordering", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		_, err := svc.ListTransactions(user.ID, page, ListOptions{Ordering: "comment"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, 10, nil)

		found, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if found.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, found.ID)
		}
	})

	t.Run("foreign_row_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user1.ID, 10, nil)

		_, err := svc.GetTransactionByID(user2.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, 10, nil)

		amount := 15.0
		comment := "tip included"
		updated, err := svc.UpdateTransaction(user.ID, created.ID, nil, &amount, nil, &comment, nil)
		testutil.AssertNoError(t, err)

		if updated.Amount != 15 {
			t.Errorf("expected amount 15, got %f", updated.Amount)
		}
		if updated.Comment == nil || *updated.Comment != comment {
			t.Errorf("expected comment %q, got %v", comment, updated.Comment)
		}
	})

	t.Run("clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, "food", 500)
		created := testutil.CreateTestTransaction(t, db, user.ID, 10, &category.ID)

		empty := ""
		updated, err := svc.UpdateTransaction(user.ID, created.ID, nil, nil, nil, nil, &empty)
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Errorf("expected cleared category, got %v", *updated.CategoryID)
		}
	})

	t.Run("empty_description_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, 10, nil)

		empty := ""
		_, err := svc.UpdateTransaction(user.ID, created.ID, nil, nil, &empty, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, 10, nil)

		err := svc.DeleteTransaction(user.ID, created.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("foreign_row_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user1.ID, 10, nil)

		err := svc.DeleteTransaction(user2.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
