package integration

import (
	"net/http"
	"testing"
)

// createCategory adds a category to a budget and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, budgetID, name, limit string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/categories",
		`{"name":"`+name+`","limit":"`+limit+`"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

func TestExpenseLimitEnforcement(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "maria", "secret-password-1")
	budgetID := app.createBudget(t, token, "2024-03-01T00:00:00Z", `[]`)
	categoryID := app.createCategory(t, token, budgetID, "Groceries", "500.00")

	// 450 leaves 50 of room.
	rec := app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
		`{"amount":"450.00","date":"2024-03-05T00:00:00Z"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// 40 fits.
	rec = app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
		`{"amount":"40.00","date":"2024-03-06T00:00:00Z"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// 60 would total 550 and is rejected with the figures attached.
	rec = app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
		`{"amount":"60.00","date":"2024-03-07T00:00:00Z"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "LIMIT_EXCEEDED" {
		t.Fatalf("expected LIMIT_EXCEEDED, got %v", errObj["code"])
	}
	details := errObj["details"].(map[string]interface{})
	if details["limit"] != "500" || details["current_spent"] != "490" || details["proposed"] != "60" {
		t.Errorf("unexpected details: %v", details)
	}

	// The category detail reflects the recorded spend only.
	rec = app.request("GET", "/api/v1/categories/"+categoryID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	if category["total_spent"] != "490" {
		t.Errorf("expected total_spent 490, got %v", category["total_spent"])
	}
}

func TestExpenseUpdateExcludesOldAmount(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "maria", "secret-password-1")
	budgetID := app.createBudget(t, token, "2024-03-01T00:00:00Z", `[]`)
	categoryID := app.createCategory(t, token, budgetID, "Groceries", "100.00")

	rec := app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
		`{"amount":"50.00"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)

	// 80 replaces 50, projected total 80 <= 100.
	rec = app.request("PUT", "/api/v1/expenses/"+expenseID, `{"amount":"80.00"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// 150 exceeds the limit even with the old amount excluded.
	rec = app.request("PUT", "/api/v1/expenses/"+expenseID, `{"amount":"150.00"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// The failed update left the stored amount alone.
	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	if expense["amount"] != "80" {
		t.Errorf("expected amount 80, got %v", expense["amount"])
	}
}

func TestExpenseListOrderingAndPagination(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "maria", "secret-password-1")
	budgetID := app.createBudget(t, token, "2024-03-01T00:00:00Z", `[]`)
	categoryID := app.createCategory(t, token, budgetID, "Groceries", "500.00")

	days := []string{"2024-03-01", "2024-03-03", "2024-03-02"}
	for _, day := range days {
		rec := app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
			`{"amount":"10.00","date":"`+day+`T12:00:00Z"}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("record expense failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := app.request("GET", "/api/v1/categories/"+categoryID+"/expenses?page=1&page_size=2", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expenses failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 3 {
		t.Fatalf("expected 3 items, got %v", result["total_items"])
	}
	if result["total_pages"].(float64) != 2 {
		t.Errorf("expected 2 pages, got %v", result["total_pages"])
	}
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 expenses on page, got %d", len(data))
	}
	first := data[0].(map[string]interface{})["date"].(string)
	if first[:10] != "2024-03-03" {
		t.Errorf("expected most recent expense first, got %s", first)
	}
}

func TestExpenseDeleteIsNotIdempotent(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "maria", "secret-password-1")
	budgetID := app.createBudget(t, token, "2024-03-01T00:00:00Z", `[]`)
	categoryID := app.createCategory(t, token, budgetID, "Groceries", "500.00")

	rec := app.request("POST", "/api/v1/categories/"+categoryID+"/expenses",
		`{"amount":"25.00"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)

	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d: %s", rec.Code, rec.Body.String())
	}
}
