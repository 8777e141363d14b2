package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"presupuesto/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Amount parses a fixed-point monetary amount, failing the test on bad input.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique username.
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
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget for the current month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string) *models.MonthlyBudget {
	t.Helper()
	return CreateTestBudgetForMonth(t, db, userID, time.Now())
}

// CreateTestBudgetForMonth creates a budget for the given month (normalized).
func CreateTestBudgetForMonth(t *testing.T, db *gorm.DB, userID string, month time.Time) *models.MonthlyBudget {
	t.Helper()

	budget := &models.MonthlyBudget{
		Month:  models.NormalizeMonth(month),
		UserID: userID,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category with the given limit.
func CreateTestCategory(t *testing.T, db *gorm.DB, budgetID, limit string) *models.BudgetCategory {
	t.Helper()
	return CreateTestCategoryWithName(t, db, budgetID, fmt.Sprintf("Category %d", nextID()), limit)
}

// CreateTestCategoryWithName creates a category with the given name and limit.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, budgetID, name, limit string) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		Name:            name,
		Limit:           Amount(t, limit),
		MonthlyBudgetID: budgetID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, categoryID, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Amount:     Amount(t, amount),
		Date:       time.Now(),
		CategoryID: categoryID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
