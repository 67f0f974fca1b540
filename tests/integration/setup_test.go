package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"budgetbuddy/internal/handlers"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/middleware"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	AdminID string
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.CategoryType{},
		&models.Category{},
		&models.BudgetPlan{},
		&models.Transaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite, with the admin account and default rows already provisioned.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	bootstrapService := services.NewBootstrapService(db, userService, profileService,
		"admin", "admin@test.com", "adminpassword")

	admin, err := bootstrapService.EnsureAdmin()
	if err != nil {
		t.Fatalf("failed to provision admin: %v", err)
	}

	categoryTypeService := services.NewCategoryTypeService(db, admin.ID)
	categoryService := services.NewCategoryService(db, admin.ID)
	budgetPlanService := services.NewBudgetPlanService(db, admin.ID)
	transactionService := services.NewTransactionService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, bootstrapService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	categoryTypeHandler := handlers.NewCategoryTypeHandler(categoryTypeService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	budgetPlanHandler := handlers.NewBudgetPlanHandler(budgetPlanService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	adminHandler := handlers.NewAdminHandler(bootstrapService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	categoryTypes := protected.Group("/categorytypes")
	categoryTypes.POST("", categoryTypeHandler.CreateCategoryType)
	categoryTypes.GET("", categoryTypeHandler.ListCategoryTypes)
	categoryTypes.GET("/:id", categoryTypeHandler.GetCategoryType)
	categoryTypes.GET("/:id/categories", categoryTypeHandler.GetTypeCategories)
	categoryTypes.PUT("/:id", categoryTypeHandler.UpdateCategoryType)
	categoryTypes.DELETE("/:id", categoryTypeHandler.DeleteCategoryType)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.GET("/:id/transactions", categoryHandler.GetCategoryTransactions)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgetPlans := protected.Group("/budgetplans")
	budgetPlans.POST("", budgetPlanHandler.CreateBudgetPlan)
	budgetPlans.GET("", budgetPlanHandler.ListBudgetPlans)
	budgetPlans.GET("/:id", budgetPlanHandler.GetBudgetPlan)
	budgetPlans.PUT("/:id", budgetPlanHandler.UpdateBudgetPlan)
	budgetPlans.DELETE("/:id", budgetPlanHandler.DeleteBudgetPlan)

	profiles := protected.Group("/profiles")
	profiles.GET("", profileHandler.ListProfiles)
	profiles.GET("/:username", profileHandler.GetProfile)
	profiles.PUT("/:username", profileHandler.UpdateProfile)
	profiles.PUT("/:username/avatar", profileHandler.UploadAvatar)

	// Staff-only routes
	staff := protected.Group("/")
	staff.Use(middleware.StaffOnly())
	staff.POST("/admin/create-defaults", adminHandler.CreateDefaults)

	users := staff.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/:username", userHandler.GetUser)
	users.PUT("/:username", userHandler.UpdateUser)
	users.DELETE("/:username", userHandler.DeleteUser)

	return &testApp{DB: db, Router: router, AdminID: admin.ID}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, username, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@test.com","password":%q}`, username, username, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, username, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// loginAdmin logs in the provisioned admin account.
func (app *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	token, _ := app.loginUser(t, "admin", "adminpassword")
	return token
}
