package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend recorded against a category. Date defaults to
// the creation time when the client does not provide one.
type Expense struct {
	Base
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	CategoryID string          `gorm:"type:uuid;not null;index" json:"category_id"`

	Category *BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
