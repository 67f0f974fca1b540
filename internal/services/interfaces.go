package services

import (
	"time"

	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
)

// ListOptions holds optional search and ordering parameters for list
// endpoints. Ordering accepts a column name with an optional leading "-"
// for descending order; the allowed columns are endpoint-specific.
type ListOptions struct {
	Search   string
	Ordering string
}

// CategoryDetail is a category together with its derived spend aggregates.
// amount_actual and amount_left are computed on every read and never stored.
type CategoryDetail struct {
	models.Category
	AmountActual float64 `json:"amount_actual"`
	AmountLeft   float64 `json:"amount_left"`
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string, isStaff, isSuperuser bool) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(username string, email *string, isActive, isStaff *bool) (*models.User, error)
	DeleteUser(username string) error
	AttemptLogin(username, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ProfileServicer defines the contract for profile-related business logic.
type ProfileServicer interface {
	CreateProfile(userID string) (*models.Profile, error)
	ListProfiles(page pagination.PageRequest) (*pagination.PageResponse[models.Profile], error)
	GetProfileByUsername(username string) (*models.Profile, error)
	UpdateProfile(requesterID, username string, bio *string) (*models.Profile, error)
	SetAvatar(requesterID, username, avatarPath string) (*models.Profile, error)
}

// CategoryTypeServicer defines the contract for category type business
// logic. Reads see the union of admin-owned defaults and the requester's
// own rows.
type CategoryTypeServicer interface {
	CreateCategoryType(userID, name string) (*models.CategoryType, error)
	ListCategoryTypes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryType], error)
	GetCategoryTypeByID(userID, typeID string) (*models.CategoryType, error)
	GetTypeCategories(userID, typeID string) ([]CategoryDetail, error)
	UpdateCategoryType(userID, typeID, name string) (*models.CategoryType, error)
	DeleteCategoryType(userID, typeID string, isStaff bool) error
}

// CategoryServicer defines the contract for category business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryTypeID *string, amountPlanned float64, description string) (*CategoryDetail, error)
	ListCategories(userID string, page pagination.PageRequest, opts ListOptions) (*pagination.PageResponse[CategoryDetail], error)
	GetCategoryByID(userID, categoryID string) (*CategoryDetail, error)
	GetCategoryTransactions(userID, categoryID string) ([]models.Transaction, error)
	UpdateCategory(userID, categoryID, name string, categoryTypeID *string, amountPlanned *float64, description *string) (*CategoryDetail, error)
	DeleteCategory(userID, categoryID string) error
}

// BudgetPlanServicer defines the contract for budget plan business logic.
type BudgetPlanServicer interface {
	CreateBudgetPlan(userID, name string, date time.Time, description string, categoryTypeIDs []string) (*models.BudgetPlan, error)
	ListBudgetPlans(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPlan], error)
	GetBudgetPlanByID(userID, planID string) (*models.BudgetPlan, error)
	GetPlanCategoryTypes(userID, planID string) ([]models.CategoryType, error)
	UpdateBudgetPlan(userID, planID, name string, date *time.Time, description *string, categoryTypeIDs []string) (*models.BudgetPlan, error)
	DeleteBudgetPlan(userID, planID string) error
}

// TransactionServicer defines the contract for transaction business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, date time.Time, amount float64, description string, comment *string, categoryID *string) (*models.Transaction, error)
	ListTransactions(userID string, page pagination.PageRequest, opts ListOptions) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, date *time.Time, amount *float64, description, comment *string, categoryID *string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BootstrapServicer provisions the admin account, the default category
// types, and per-user default categories. All operations are explicit and
// idempotent; nothing is wired to row-creation hooks.
type BootstrapServicer interface {
	EnsureAdmin() (*models.User, error)
	EnsureDefaultCategoryTypes(adminID string) ([]models.CategoryType, error)
	EnsureUserDefaults(userID string) ([]models.Category, error)
	ProvisionUser(userID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
