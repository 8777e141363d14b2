package services

import (
	"testing"

	"presupuesto/internal/pagination"
	"presupuesto/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		cat, err := svc.CreateCategory(user.ID, budget.ID, "Groceries", testutil.Amount(t, "500.00"))
		testutil.AssertNoError(t, err)

		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		testutil.AssertAmount(t, cat.Limit, "500.00")
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.CreateCategory(user.ID, budget.ID, "Groceries", testutil.Amount(t, "500.00"))
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, budget.ID, "groceries", testutil.Amount(t, "100.00"))
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("same_name_in_other_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		march := testutil.CreateTestBudget(t, db, user.ID)
		april := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.CreateCategory(user.ID, march.ID, "Groceries", testutil.Amount(t, "500.00"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, april.ID, "Groceries", testutil.Amount(t, "400.00"))
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.CreateCategory(user.ID, budget.ID, "   ", testutil.Amount(t, "500.00"))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.CreateCategory(user.ID, budget.ID, "Groceries", testutil.Amount(t, "-1.00"))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)

		_, err := svc.CreateCategory(intruder.ID, budget.ID, "Groceries", testutil.Amount(t, "500.00"))
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetBudgetCategories(t *testing.T) {
	t.Run("sorted_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		testutil.CreateTestCategoryWithName(t, db, budget.ID, "Transport", "120.00")
		testutil.CreateTestCategoryWithName(t, db, budget.ID, "Groceries", "500.00")

		result, err := svc.GetBudgetCategories(user.ID, budget.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 categories, got %d", result.TotalItems)
		}
		if result.Data[0].Name != "Groceries" {
			t.Errorf("expected Groceries first, got %s", result.Data[0].Name)
		}
	})

	t.Run("unknown_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetCategories(user.ID, "00000000-0000-0000-0000-000000000000", pagination.PageRequest{})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("detail_with_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, budget.ID, "500.00")
		testutil.CreateTestExpense(t, db, cat.ID, "45.50")
		testutil.CreateTestExpense(t, db, cat.ID, "30.00")

		detail, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, detail.TotalSpent, "75.50")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)
		cat := testutil.CreateTestCategory(t, db, budget.ID, "500.00")

		_, err := svc.GetCategoryByID(intruder.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename_and_adjust_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategoryWithName(t, db, budget.ID, "Groceries", "500.00")

		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Food", testutil.Amount(t, "600.00"))
		testutil.AssertNoError(t, err)
		if updated.Name != "Food" {
			t.Errorf("expected name Food, got %s", updated.Name)
		}
		testutil.AssertAmount(t, updated.Limit, "600.00")
	})

	t.Run("rename_to_sibling_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategoryWithName(t, db, budget.ID, "Groceries", "500.00")
		testutil.CreateTestCategoryWithName(t, db, budget.ID, "Transport", "120.00")

		_, err := svc.UpdateCategory(user.ID, cat.ID, "TRANSPORT", testutil.Amount(t, "500.00"))
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("keep_own_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategoryWithName(t, db, budget.ID, "Groceries", "500.00")

		_, err := svc.UpdateCategory(user.ID, cat.ID, "Groceries", testutil.Amount(t, "450.00"))
		testutil.AssertNoError(t, err)
	})

	t.Run("lowering_limit_below_spend_is_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategoryWithName(t, db, budget.ID, "Groceries", "500.00")
		testutil.CreateTestExpense(t, db, cat.ID, "400.00")

		// Existing spend stays; only new expenses see the tighter limit.
		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Groceries", testutil.Amount(t, "300.00"))
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, updated.Limit, "300.00")

		detail, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, detail.TotalSpent, "400.00")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("empty_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, budget.ID, "500.00")

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("category_with_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		locks := NewCategoryLocks()
		catSvc := NewCategoryService(db, locks)
		expSvc := NewExpenseService(db, locks)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, budget.ID, "500.00")
		expense := testutil.CreateTestExpense(t, db, cat.ID, "10.00")

		testutil.AssertAppError(t, catSvc.DeleteCategory(user.ID, cat.ID), "CATEGORY_HAS_EXPENSES")

		// After the expense is removed the delete goes through.
		testutil.AssertNoError(t, expSvc.DeleteExpense(user.ID, expense.ID))
		testutil.AssertNoError(t, catSvc.DeleteCategory(user.ID, cat.ID))
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db, NewCategoryLocks())
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)
		cat := testutil.CreateTestCategory(t, db, budget.ID, "500.00")

		testutil.AssertAppError(t, svc.DeleteCategory(intruder.ID, cat.ID), "CATEGORY_NOT_FOUND")
	})
}
