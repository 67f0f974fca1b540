package main

import (
	"fmt"
	"net/http"
	"os"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/database"
	"budgetbuddy/internal/handlers"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/middleware"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgetbuddy/internal/docs" // Import swagger docs
)

// @title           BudgetBuddy API
// @version         1.0
// @description     BudgetBuddy is a personal budgeting application that lets users plan budgets, organise spending categories, and track transactions.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	db := dbManager.DB()

	// Provision the admin account and the default category types before
	// anything else; the admin ID scopes all default-row visibility.
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	bootstrapService := services.NewBootstrapService(db, userService, profileService,
		appConfig.AdminUsername, appConfig.AdminEmail, appConfig.AdminPassword)

	admin, err := bootstrapService.EnsureAdmin()
	if err != nil {
		return fmt.Errorf("failed to provision admin account: %w", err)
	}

	// Initialize services
	categoryTypeService := services.NewCategoryTypeService(db, admin.ID)
	categoryService := services.NewCategoryService(db, admin.ID)
	budgetPlanService := services.NewBudgetPlanService(db, admin.ID)
	transactionService := services.NewTransactionService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, bootstrapService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	categoryTypeHandler := handlers.NewCategoryTypeHandler(categoryTypeService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	budgetPlanHandler := handlers.NewBudgetPlanHandler(budgetPlanService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	adminHandler := handlers.NewAdminHandler(bootstrapService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Category type routes
	categoryTypes := protected.Group("/categorytypes")
	categoryTypes.POST("", categoryTypeHandler.CreateCategoryType)
	categoryTypes.GET("", categoryTypeHandler.ListCategoryTypes)
	categoryTypes.GET("/:id", categoryTypeHandler.GetCategoryType)
	categoryTypes.GET("/:id/categories", categoryTypeHandler.GetTypeCategories)
	categoryTypes.PUT("/:id", categoryTypeHandler.UpdateCategoryType)
	categoryTypes.DELETE("/:id", categoryTypeHandler.DeleteCategoryType)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.GET("/:id/transactions", categoryHandler.GetCategoryTransactions)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget plan routes
	budgetPlans := protected.Group("/budgetplans")
	budgetPlans.POST("", budgetPlanHandler.CreateBudgetPlan)
	budgetPlans.GET("", budgetPlanHandler.ListBudgetPlans)
	budgetPlans.GET("/:id", budgetPlanHandler.GetBudgetPlan)
	budgetPlans.PUT("/:id", budgetPlanHandler.UpdateBudgetPlan)
	budgetPlans.DELETE("/:id", budgetPlanHandler.DeleteBudgetPlan)

	// Profile routes
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

	log.Infof("Starting BudgetBuddy backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
