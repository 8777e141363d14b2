package services

import (
	"time"

	"github.com/shopspring/decimal"

	"presupuesto/internal/models"
	"presupuesto/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
}

// CategoryInput is one category definition in a budget-creation request.
type CategoryInput struct {
	Name  string
	Limit decimal.Decimal
}

// BudgetSummary is the list representation of a budget with its derived
// aggregates. The totals are computed from the expense rows on every read,
// never stored.
type BudgetSummary struct {
	ID              string          `json:"id"`
	Month           time.Time       `json:"month"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	CategoriesCount int             `json:"categories_count"`
}

// CategoryDetail is a category with its derived total.
type CategoryDetail struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Limit           decimal.Decimal `json:"limit"`
	MonthlyBudgetID string          `json:"monthly_budget_id"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
}

// BudgetDetail is a budget with per-category totals.
type BudgetDetail struct {
	ID         string           `json:"id"`
	Month      time.Time        `json:"month"`
	UserID     string           `json:"user_id"`
	Categories []CategoryDetail `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
// Every operation takes the acting user id explicitly; ownership is never
// read from ambient state.
type BudgetServicer interface {
	CreateBudget(userID string, month time.Time, categories []CategoryInput) (*models.MonthlyBudget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[BudgetSummary], error)
	GetBudgetByID(userID, budgetID string) (*BudgetDetail, error)
	UpdateBudget(userID, budgetID string, month time.Time) (*models.MonthlyBudget, error)
	DeleteBudget(userID, budgetID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, budgetID, name string, limit decimal.Decimal) (*models.BudgetCategory, error)
	GetBudgetCategories(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error)
	GetCategoryByID(userID, categoryID string) (*CategoryDetail, error)
	UpdateCategory(userID, categoryID, name string, limit decimal.Decimal) (*models.BudgetCategory, error)
	DeleteCategory(userID, categoryID string) error
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	RecordExpense(userID, categoryID string, amount decimal.Decimal, date time.Time) (*models.Expense, error)
	GetCategoryExpenses(userID, categoryID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, amount decimal.Decimal, date time.Time) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
