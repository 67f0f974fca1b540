package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetbuddy/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a regular user with a hashed password and a unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@test.com", username),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a staff superuser.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	admin := CreateTestUserWithUsername(t, db, fmt.Sprintf("admin%d", nextID()))
	if err := db.Model(admin).Updates(map[string]interface{}{
		"is_staff":     true,
		"is_superuser": true,
	}).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	admin.IsStaff = true
	admin.IsSuperuser = true
	return admin
}

// CreateTestProfile creates a profile for the given user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string) *models.Profile {
	t.Helper()

	profile := &models.Profile{UserID: userID}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestCategoryType creates a category type owned by the given user.
func CreateTestCategoryType(t *testing.T, db *gorm.DB, userID, name string) *models.CategoryType {
	t.Helper()

	categoryType := &models.CategoryType{
		Name:   name,
		UserID: &userID,
	}
	if err := db.Create(categoryType).Error; err != nil {
		t.Fatalf("failed to create test category type: %v", err)
	}
	return categoryType
}

// CreateTestCategory creates a category for the given user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, name string, amountPlanned float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:        userID,
		Name:          name,
		AmountPlanned: amountPlanned,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestCategoryWithType creates a category attached to a category type.
func CreateTestCategoryWithType(t *testing.T, db *gorm.DB, userID, name string, amountPlanned float64, categoryTypeID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:         userID,
		Name:           name,
		AmountPlanned:  amountPlanned,
		CategoryTypeID: &categoryTypeID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction for the given user, optionally
// attached to a category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, amount float64, categoryID *string) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		Date:        time.Now(),
		Amount:      amount,
		Description: fmt.Sprintf("test transaction %d", nextID()),
		CategoryID:  categoryID,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudgetPlan creates a budget plan for the given user.
func CreateTestBudgetPlan(t *testing.T, db *gorm.DB, userID, name string) *models.BudgetPlan {
	t.Helper()

	plan := &models.BudgetPlan{
		UserID: userID,
		Name:   name,
		Date:   time.Now(),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test budget plan: %v", err)
	}
	return plan
}
