// Command seed populates the database with demo users, categories, and
// transactions. Intended for local development only.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/database"
	"budgetbuddy/internal/logger"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"

	"github.com/bxcodec/faker/v3"
)

const (
	demoUserCount        = 5
	transactionsPerUser  = 30
	demoPassword         = "demo-password-123"
	maxTransactionAmount = 250.0
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db := dbManager.DB()
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	bootstrapService := services.NewBootstrapService(db, userService, profileService,
		cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)

	admin, err := bootstrapService.EnsureAdmin()
	if err != nil {
		return fmt.Errorf("failed to provision admin: %w", err)
	}

	categoryService := services.NewCategoryService(db, admin.ID)
	budgetPlanService := services.NewBudgetPlanService(db, admin.ID)
	transactionService := services.NewTransactionService(db)

	for i := 0; i < demoUserCount; i++ {
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		user, err := userService.CreateUser(username, faker.Email(), demoPassword, false, false)
		if err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", username, err)
		}
		if err := bootstrapService.ProvisionUser(user.ID); err != nil {
			return fmt.Errorf("failed to provision demo user %s: %w", username, err)
		}

		categories, err := categoryService.ListCategories(user.ID,
			pagination.PageRequest{Page: 1, PageSize: 100}, services.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list categories for %s: %w", username, err)
		}

		for j := 0; j < transactionsPerUser; j++ {
			var categoryID *string
			if len(categories.Data) > 0 {
				categoryID = &categories.Data[rand.Intn(len(categories.Data))].ID
			}
			date := time.Now().AddDate(0, 0, -rand.Intn(90))
			amount := float64(rand.Intn(int(maxTransactionAmount*100))) / 100
			if _, err := transactionService.CreateTransaction(user.ID, date, amount,
				faker.Sentence(), nil, categoryID); err != nil {
				return fmt.Errorf("failed to create transaction for %s: %w", username, err)
			}
		}

		planName := fmt.Sprintf("%s plan", faker.Word())
		if _, err := budgetPlanService.CreateBudgetPlan(user.ID, planName,
			time.Now(), faker.Sentence(), nil); err != nil {
			return fmt.Errorf("failed to create budget plan for %s: %w", username, err)
		}

		log.Infof("Seeded user %s with %d transactions", username, transactionsPerUser)
	}

	log.Infof("Seeding complete: %d demo users", demoUserCount)
	return nil
}
