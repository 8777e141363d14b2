package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "presupuesto/internal/errors"
	"presupuesto/internal/ledger"
	"presupuesto/internal/models"
	"presupuesto/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a monthly budget with its initial categories. The
// month is truncated to the first of the calendar month before the
// uniqueness check; the category list is de-duplicated by case-insensitive
// name, keeping the first occurrence. The new budget has zero spend by
// definition: expenses can only be recorded afterwards.
func (s *budgetService) CreateBudget(userID string, month time.Time, categories []CategoryInput) (*models.MonthlyBudget, error) {
	if month.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "month is required")
	}
	month = models.NormalizeMonth(month)

	seen := make(map[string]bool, len(categories))
	cats := make([]models.BudgetCategory, 0, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
		}
		if c.Limit.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "category limit must not be negative")
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		cats = append(cats, models.BudgetCategory{Name: name, Limit: c.Limit})
	}

	budget := &models.MonthlyBudget{
		Month:      month,
		UserID:     userID,
		Categories: cats,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MonthlyBudget{}).
			Where("user_id = ? AND month = ?", userID, month).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateBudgetMonth
		}

		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetUserBudgets returns a paginated list of budget summaries for the
// user, most recent month first. Totals are derived from the expense rows
// on every call.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[BudgetSummary], error) {
	page.Defaults()

	base := s.db.Model(&models.MonthlyBudget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.MonthlyBudget
	if err := base.Preload("Categories.Expenses").
		Scopes(pagination.Paginate(page)).
		Order("month DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		summaries = append(summaries, BudgetSummary{
			ID:              b.ID,
			Month:           b.Month,
			TotalBudget:     ledger.BudgetLimitSum(b.Categories),
			TotalSpent:      ledger.BudgetSpent(b.Categories),
			CategoriesCount: len(b.Categories),
		})
	}

	result := pagination.NewPageResponse(summaries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with per-category totals if it belongs to
// the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetDetail, error) {
	budget, err := s.ownedBudget(s.db, userID, budgetID, true)
	if err != nil {
		return nil, err
	}

	detail := &BudgetDetail{
		ID:         budget.ID,
		Month:      budget.Month,
		UserID:     budget.UserID,
		Categories: make([]CategoryDetail, 0, len(budget.Categories)),
	}
	for _, c := range budget.Categories {
		detail.Categories = append(detail.Categories, CategoryDetail{
			ID:              c.ID,
			Name:            c.Name,
			Limit:           c.Limit,
			MonthlyBudgetID: c.MonthlyBudgetID,
			TotalSpent:      ledger.CategoryTotal(c.Expenses),
		})
	}
	return detail, nil
}

// UpdateBudget moves a budget to a different month. Only the month is
// mutable after creation.
func (s *budgetService) UpdateBudget(userID, budgetID string, month time.Time) (*models.MonthlyBudget, error) {
	if month.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "month is required")
	}
	month = models.NormalizeMonth(month)

	var budget *models.MonthlyBudget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		budget, txErr = s.ownedBudget(tx, userID, budgetID, false)
		if txErr != nil {
			return txErr
		}

		var count int64
		if err := tx.Model(&models.MonthlyBudget{}).
			Where("user_id = ? AND month = ? AND id <> ?", userID, month, budgetID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateBudgetMonth
		}

		if err := tx.Model(budget).Update("month", month).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		budget.Month = month
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget and its categories. Rejected while any
// category still has recorded expenses.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := s.ownedBudget(tx, userID, budgetID, false)
		if err != nil {
			return err
		}

		var expenseCount int64
		if err := tx.Model(&models.Expense{}).
			Where("category_id IN (?)", tx.Model(&models.BudgetCategory{}).
				Select("id").Where("monthly_budget_id = ?", budgetID)).
			Count(&expenseCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if expenseCount > 0 {
			return apperrors.ErrBudgetHasExpenses
		}

		if err := tx.Where("monthly_budget_id = ?", budgetID).
			Delete(&models.BudgetCategory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ownedBudget loads a budget and verifies ownership. Budgets of other
// users are reported as not found.
func (s *budgetService) ownedBudget(tx *gorm.DB, userID, budgetID string, withExpenses bool) (*models.MonthlyBudget, error) {
	q := tx.Where("id = ? AND user_id = ?", budgetID, userID)
	if withExpenses {
		q = q.Preload("Categories.Expenses")
	}

	var budget models.MonthlyBudget
	if err := q.First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
