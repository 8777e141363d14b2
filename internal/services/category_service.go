package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "presupuesto/internal/errors"
	"presupuesto/internal/ledger"
	"presupuesto/internal/models"
	"presupuesto/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db    *gorm.DB
	locks *CategoryLocks
}

// NewCategoryService creates a new CategoryServicer. The lock registry is
// shared with the expense service so deletion guards and expense writes on
// the same category serialize.
func NewCategoryService(db *gorm.DB, locks *CategoryLocks) CategoryServicer {
	return &categoryService{db: db, locks: locks}
}

// CreateCategory adds a named spending bucket to a budget. Names are
// unique case-insensitively within the budget.
func (s *categoryService) CreateCategory(userID, budgetID, name string, limit decimal.Decimal) (*models.BudgetCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
	}
	if limit.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category limit must not be negative")
	}

	category := &models.BudgetCategory{
		Name:            name,
		Limit:           limit,
		MonthlyBudgetID: budgetID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.MonthlyBudget
		if err := tx.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var count int64
		if err := tx.Model(&models.BudgetCategory{}).
			Where("monthly_budget_id = ? AND LOWER(name) = ?", budgetID, strings.ToLower(name)).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateCategoryName
		}

		if err := tx.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetBudgetCategories returns a paginated list of categories in a budget.
func (s *categoryService) GetBudgetCategories(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error) {
	var budget models.MonthlyBudget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	base := s.db.Model(&models.BudgetCategory{}).Where("monthly_budget_id = ?", budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.BudgetCategory
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category with its derived total spent.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*CategoryDetail, error) {
	category, err := ownedCategory(s.db, userID, categoryID, true)
	if err != nil {
		return nil, err
	}

	return &CategoryDetail{
		ID:              category.ID,
		Name:            category.Name,
		Limit:           category.Limit,
		MonthlyBudgetID: category.MonthlyBudgetID,
		TotalSpent:      ledger.CategoryTotal(category.Expenses),
	}, nil
}

// UpdateCategory renames a category and/or changes its limit. Lowering the
// limit below the current spend is allowed: recorded expenses are
// historical facts, and the new limit constrains future additions.
func (s *categoryService) UpdateCategory(userID, categoryID, name string, limit decimal.Decimal) (*models.BudgetCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
	}
	if limit.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category limit must not be negative")
	}

	var category *models.BudgetCategory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		category, txErr = ownedCategory(tx, userID, categoryID, false)
		if txErr != nil {
			return txErr
		}

		var count int64
		if err := tx.Model(&models.BudgetCategory{}).
			Where("monthly_budget_id = ? AND LOWER(name) = ? AND id <> ?",
				category.MonthlyBudgetID, strings.ToLower(name), categoryID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateCategoryName
		}

		updates := map[string]interface{}{"name": name, "limit": limit}
		if err := tx.Model(category).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		category.Name = name
		category.Limit = limit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes an empty category. Rejected while the category
// still owns expenses. Holds the category lock so a racing expense write
// cannot slip in between the emptiness check and the delete.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	unlock := s.locks.Lock(categoryID)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		category, err := ownedCategory(tx, userID, categoryID, false)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", categoryID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryHasExpenses
		}

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ownedCategory loads a category and verifies that its budget belongs to
// the user. Categories of other users are reported as not found.
func ownedCategory(tx *gorm.DB, userID, categoryID string, withExpenses bool) (*models.BudgetCategory, error) {
	q := tx.Joins("JOIN monthly_budgets ON monthly_budgets.id = budget_categories.monthly_budget_id").
		Where("budget_categories.id = ? AND monthly_budgets.user_id = ?", categoryID, userID)
	if withExpenses {
		q = q.Preload("Expenses")
	}

	var category models.BudgetCategory
	if err := q.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
