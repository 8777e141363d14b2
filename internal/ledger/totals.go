// Package ledger contains the aggregation and limit-enforcement logic of
// the budgeting core. All aggregates are pure functions over the expense
// and category sets loaded from storage; nothing here is cached or stored,
// so the figures can never diverge from the underlying records.
package ledger

import (
	"github.com/shopspring/decimal"

	"presupuesto/internal/models"
)

// CategoryTotal returns the sum of all expense amounts in a category.
func CategoryTotal(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryTotalExcluding returns the sum of all expense amounts except the
// one with the given id. Used on the expense-update path, where the old
// amount must not count against the limit.
func CategoryTotalExcluding(expenses []models.Expense, expenseID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.ID == expenseID {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// BudgetSpent returns the total spent across all categories of a budget.
// Each category's Expenses must be loaded.
func BudgetSpent(categories []models.BudgetCategory) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(CategoryTotal(c.Expenses))
	}
	return total
}

// BudgetLimitSum returns the sum of all category limits in a budget.
func BudgetLimitSum(categories []models.BudgetCategory) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Limit)
	}
	return total
}
