package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "presupuesto/internal/errors"
	"presupuesto/internal/ledger"
	"presupuesto/internal/models"
	"presupuesto/internal/pagination"
)

// expenseService handles expense-related business logic. All writes hold
// the owning category's lock across the read-validate-write transaction so
// that concurrent expenses against one category validate the limit against
// a serialized, current total.
type expenseService struct {
	db    *gorm.DB
	locks *CategoryLocks
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, locks *CategoryLocks) ExpenseServicer {
	return &expenseService{db: db, locks: locks}
}

// RecordExpense adds an expense to a category after the limit check. Date
// defaults to now when zero.
func (s *expenseService) RecordExpense(userID, categoryID string, amount decimal.Decimal, date time.Time) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}

	unlock := s.locks.Lock(categoryID)
	defer unlock()

	expense := &models.Expense{
		Amount:     amount,
		Date:       date,
		CategoryID: categoryID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := ownedCategory(tx, userID, categoryID, true)
		if err != nil {
			return err
		}

		spent := ledger.CategoryTotal(category.Expenses)
		if err := ledger.CheckLimit(category.Limit, spent, amount); err != nil {
			return err
		}

		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetCategoryExpenses returns a paginated list of the category's expenses,
// most recent date first.
func (s *expenseService) GetCategoryExpenses(userID, categoryID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if _, err := ownedCategory(s.db, userID, categoryID, false); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("category_id = ?", categoryID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense owned by the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	return ownedExpense(s.db, userID, expenseID)
}

// UpdateExpense changes an expense's amount and/or date. The limit check
// runs against the category total excluding this expense's old amount.
func (s *expenseService) UpdateExpense(userID, expenseID string, amount decimal.Decimal, date time.Time) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than zero")
	}

	// Resolve the owning category first so its lock can be taken before
	// the transactional re-read.
	expense, err := ownedExpense(s.db, userID, expenseID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(expense.CategoryID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		current, txErr := ownedExpense(tx, userID, expenseID)
		if txErr != nil {
			return txErr
		}
		expense = current

		category, txErr := ownedCategory(tx, userID, current.CategoryID, true)
		if txErr != nil {
			return txErr
		}

		spentExcluding := ledger.CategoryTotalExcluding(category.Expenses, expenseID)
		if err := ledger.CheckLimit(category.Limit, spentExcluding, amount); err != nil {
			return err
		}

		if date.IsZero() {
			date = current.Date
		}
		updates := map[string]interface{}{"amount": amount, "date": date}
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		current.Amount = amount
		current.Date = date
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense. Deleting an already-deleted id yields
// not-found. Aggregates need no eager recomputation; they are derived on
// read.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		expense, err := ownedExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ownedExpense loads an expense and verifies that its category's budget
// belongs to the user.
func ownedExpense(tx *gorm.DB, userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := tx.Joins("JOIN budget_categories ON budget_categories.id = expenses.category_id").
		Joins("JOIN monthly_budgets ON monthly_budgets.id = budget_categories.monthly_budget_id").
		Where("expenses.id = ? AND monthly_budgets.user_id = ?", expenseID, userID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}
