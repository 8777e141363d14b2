package models

import "github.com/shopspring/decimal"

// BudgetCategory is a named spending bucket within a budget. Names are
// unique case-insensitively within their budget. The total spent in a
// category is never stored; it is derived from the expense rows (see the
// ledger package) so it cannot drift from the underlying records.
type BudgetCategory struct {
	Base
	Name            string          `gorm:"not null" json:"name"`
	Limit           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"limit"`
	MonthlyBudgetID string          `gorm:"type:uuid;not null;index" json:"monthly_budget_id"`

	Budget   *MonthlyBudget `gorm:"foreignKey:MonthlyBudgetID" json:"budget,omitempty"`
	Expenses []Expense      `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
