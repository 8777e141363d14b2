package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"presupuesto/internal/config"
	"presupuesto/internal/database"
	apperrors "presupuesto/internal/errors"
	"presupuesto/internal/logger"
	"presupuesto/internal/services"
)

// Seeds a demo user with a budget for the current month so a fresh
// deployment has something to look at. Safe to run repeatedly: existing
// demo data is left untouched.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db := dbManager.DB()
	locks := services.NewCategoryLocks()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db, locks)

	log := logger.Get()

	user, err := userService.CreateUser("demo", "demo-password-123")
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == "DUPLICATE_USERNAME" {
			log.Info("Demo user already exists, nothing to do")
			return nil
		}
		return fmt.Errorf("failed to create demo user: %w", err)
	}
	log.Infow("Created demo user", "username", user.Username)

	budget, err := budgetService.CreateBudget(user.ID, time.Now(), []services.CategoryInput{
		{Name: "Groceries", Limit: decimal.RequireFromString("500.00")},
		{Name: "Transport", Limit: decimal.RequireFromString("120.00")},
		{Name: "Utilities", Limit: decimal.RequireFromString("200.00")},
		{Name: "Leisure", Limit: decimal.RequireFromString("150.00")},
	})
	if err != nil {
		return fmt.Errorf("failed to create demo budget: %w", err)
	}
	log.Infow("Created demo budget", "month", budget.Month.Format("2006-01"))

	expenses := map[string][]string{
		"Groceries": {"84.30", "42.75", "63.10"},
		"Transport": {"28.50"},
		"Utilities": {"96.40"},
	}
	for _, category := range budget.Categories {
		for _, amount := range expenses[category.Name] {
			if _, err := expenseService.RecordExpense(
				user.ID, category.ID, decimal.RequireFromString(amount), time.Now(),
			); err != nil {
				return fmt.Errorf("failed to record demo expense: %w", err)
			}
		}
	}

	log.Info("Seed data created successfully")
	return nil
}
