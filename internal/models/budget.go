package models

import "time"

// MonthlyBudget is a spending plan for one user and one calendar month.
// Month is always normalized to the first of the month at midnight UTC
// before storage, so the unique index on (user_id, month) enforces the
// one-budget-per-month invariant regardless of the timestamp the client
// sent.
type MonthlyBudget struct {
	Base
	Month  time.Time `gorm:"not null;uniqueIndex:idx_budgets_user_month" json:"month"`
	UserID string    `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_month" json:"user_id"`

	User       *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Categories []BudgetCategory `gorm:"foreignKey:MonthlyBudgetID" json:"categories,omitempty"`
}

// NormalizeMonth truncates a timestamp to the first of its calendar month
// at midnight UTC. All month comparisons go through this so that two
// instants in the same month are equal.
func NormalizeMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
