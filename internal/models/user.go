package models

import "time"

// User represents an account owner. A user owns zero or more monthly
// budgets. Users are deactivated rather than deleted.
type User struct {
	Base
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	Budgets []MonthlyBudget `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
