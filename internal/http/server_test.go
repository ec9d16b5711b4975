package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"duwit/internal/backend"
	"duwit/internal/memory"
	"duwit/internal/tracker"
)

func timeNowDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tr := tracker.New(memory.New(), nil, "test-user", nil)
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	s := NewServer(":0", tr)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateAndListAccounts(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name":            "BCA",
		"type":            "BANK",
		"initial_balance": "1.000.000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[backend.AccountRow](t, rec)
	if created.ID == "" {
		t.Fatalf("created account has no id")
	}
	if created.InitialBalance != 100000000 {
		t.Fatalf("initial_balance = %d, want 100000000 cents", created.InitialBalance)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	list := decode[[]backend.AccountRow](t, rec)
	if len(list) != 1 || list[0].Name != "BCA" {
		t.Fatalf("list = %+v", list)
	}

	// Wire format uses snake_case.
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"initial_balance"`)) {
		t.Fatalf("expected snake_case field in %s", rec.Body.String())
	}
}

func TestCreateTransactionParsesGroupedAmount(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Cash", "type": "CASH",
	}))

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"amount":     "250.000",
		"type":       "EXPENSE",
		"category":   "Food",
		"date":       "2025-07-14",
		"account_id": acc.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	tx := decode[backend.TransactionRow](t, rec)
	if tx.Amount != 25000000 {
		t.Fatalf("amount = %d, want 25000000 cents", tx.Amount)
	}
	if tx.Date != "2025-07-14" {
		t.Fatalf("date = %s", tx.Date)
	}
}

func TestCreateTransactionRejectsBadInputBeforeBackend(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad amount", map[string]string{"amount": "abc", "type": "EXPENSE", "category": "Food", "date": "2025-07-14", "account_id": "x"}},
		{"income category on expense", map[string]string{"amount": "100", "type": "EXPENSE", "category": "Salary", "date": "2025-07-14", "account_id": "x"}},
		{"missing account", map[string]string{"amount": "100", "type": "EXPENSE", "category": "Food", "date": "2025-07-14"}},
		{"bad date", map[string]string{"amount": "100", "type": "EXPENSE", "category": "Food", "date": "14/07/2025", "account_id": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	if list := decode[[]backend.TransactionRow](t, rec); len(list) != 0 {
		t.Fatalf("rejected input must not be stored: %v", list)
	}
}

func TestSummaryReflectsMutations(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Wallet", "type": "EWALLET", "initial_balance": "1.000",
	}))

	// Prime the cache, then mutate and confirm the cached value is dropped.
	rec := doJSON(t, s, http.MethodGet, "/api/summary", nil)
	before := decode[summaryResponse](t, rec)
	if before.TotalBalance != 100000 {
		t.Fatalf("TotalBalance = %d, want 100000", before.TotalBalance)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "200", "type": "EXPENSE", "category": "Food", "date": "2025-07-01", "account_id": acc.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tx = %d: %s", rec.Code, rec.Body.String())
	}

	after := decode[summaryResponse](t, doJSON(t, s, http.MethodGet, "/api/summary", nil))
	if after.TotalExpense != 20000 {
		t.Fatalf("TotalExpense = %d, want 20000", after.TotalExpense)
	}
	if after.TotalBalance != 80000 {
		t.Fatalf("TotalBalance = %d, want 80000", after.TotalBalance)
	}
	if after.AccountBalances[acc.ID] != 80000 {
		t.Fatalf("account balance = %d, want 80000", after.AccountBalances[acc.ID])
	}
}

func TestDeleteAccountCascadesOverAPI(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Bank", "type": "BANK",
	}))
	doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "100", "type": "EXPENSE", "category": "Food", "date": "2025-07-01", "account_id": acc.ID,
	})

	rec := doJSON(t, s, http.MethodDelete, "/api/accounts/"+acc.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d: %s", rec.Code, rec.Body.String())
	}

	if list := decode[[]backend.AccountRow](t, doJSON(t, s, http.MethodGet, "/api/accounts", nil)); len(list) != 0 {
		t.Fatalf("account not deleted: %v", list)
	}
	if list := decode[[]backend.TransactionRow](t, doJSON(t, s, http.MethodGet, "/api/transactions", nil)); len(list) != 0 {
		t.Fatalf("transactions not cascaded: %v", list)
	}
}

func TestBudgetUpsertAndReport(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Cash", "type": "CASH",
	}))

	rec := doJSON(t, s, http.MethodPut, "/api/budgets/Food", map[string]string{"limit_amount": "1.000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put budget = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, s, http.MethodPut, "/api/budgets/Food", map[string]string{"limit_amount": "2.000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put budget again = %d", rec.Code)
	}

	budgets := decode[[]backend.BudgetRow](t, doJSON(t, s, http.MethodGet, "/api/budgets", nil))
	if len(budgets) != 1 || budgets[0].LimitAmount != 200000 {
		t.Fatalf("budgets = %+v, want one Food row at 200000", budgets)
	}

	// Spend 85% of the limit this month.
	today := timeNowDate()
	rec = doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "1.700", "type": "EXPENSE", "category": "Food", "date": today, "account_id": acc.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tx = %d: %s", rec.Code, rec.Body.String())
	}

	report := decode[budgetReportResponse](t, doJSON(t, s, http.MethodGet, "/api/budgets/report", nil))
	var food *categoryBudgetResponse
	for i := range report.Categories {
		if report.Categories[i].Category == "Food" {
			food = &report.Categories[i]
		}
	}
	if food == nil {
		t.Fatalf("Food missing from report: %+v", report)
	}
	if food.Status != "near_limit" {
		t.Fatalf("status = %s, want near_limit at 85%%", food.Status)
	}
	if report.TotalAllocated != 200000 || report.TotalSpent != 170000 {
		t.Fatalf("rollup = %d/%d, want 170000/200000", report.TotalSpent, report.TotalAllocated)
	}
}

func TestTransactionListFilters(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Cash", "type": "CASH",
	}))
	for _, date := range []string{"2025-06-10", "2025-07-01", "2025-07-20"} {
		rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
			"amount": "100", "type": "EXPENSE", "category": "Food", "date": date, "account_id": acc.ID,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create tx = %d: %s", rec.Code, rec.Body.String())
		}
	}

	july := decode[[]backend.TransactionRow](t, doJSON(t, s, http.MethodGet, "/api/transactions?year=2025&month=7", nil))
	if len(july) != 2 {
		t.Fatalf("month filter returned %d rows, want 2", len(july))
	}

	recent := decode[[]backend.TransactionRow](t, doJSON(t, s, http.MethodGet, "/api/transactions?limit=1", nil))
	if len(recent) != 1 {
		t.Fatalf("limit filter returned %d rows, want 1", len(recent))
	}
	if recent[0].Date != "2025-07-20" {
		t.Fatalf("recent list not newest first: %s", recent[0].Date)
	}

	for _, query := range []string{"year=2025&month=13", "month=7", "year=2025"} {
		rec := doJSON(t, s, http.MethodGet, "/api/transactions?"+query, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q = %d, want 400", query, rec.Code)
		}
	}
}

func TestCreateAccountWithNegativeInitialBalance(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Overdrawn", "type": "BANK", "initial_balance": "-500",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account = %d: %s", rec.Code, rec.Body.String())
	}
	if acc := decode[backend.AccountRow](t, rec); acc.InitialBalance != -50000 {
		t.Fatalf("initial balance = %d, want -50000", acc.InitialBalance)
	}

	summary := decode[summaryResponse](t, doJSON(t, s, http.MethodGet, "/api/summary", nil))
	if summary.TotalBalance != -50000 {
		t.Fatalf("total balance = %d, want -50000", summary.TotalBalance)
	}
}

func TestSummaryIncludesExpenseBreakdown(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Cash", "type": "CASH",
	}))
	for _, body := range []map[string]string{
		{"amount": "100", "type": "EXPENSE", "category": "Food", "date": "2025-07-01", "account_id": acc.ID},
		{"amount": "50", "type": "EXPENSE", "category": "Transport", "date": "2025-06-01", "account_id": acc.ID},
	} {
		if rec := doJSON(t, s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("create tx = %d: %s", rec.Code, rec.Body.String())
		}
	}

	summary := decode[summaryResponse](t, doJSON(t, s, http.MethodGet, "/api/summary", nil))
	if len(summary.ExpenseByCategory) != 2 {
		t.Fatalf("breakdown = %+v, want Food and Transport", summary.ExpenseByCategory)
	}
	if summary.ExpenseByCategory[0].Category != "Food" || summary.ExpenseByCategory[0].Amount != 10000 {
		t.Fatalf("breakdown[0] = %+v", summary.ExpenseByCategory[0])
	}
}

func TestCreateTransactionDefaultsDateToToday(t *testing.T) {
	s := newTestServer(t)

	acc := decode[backend.AccountRow](t, doJSON(t, s, http.MethodPost, "/api/accounts", map[string]string{
		"name": "Cash", "type": "CASH",
	}))
	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "100", "type": "EXPENSE", "category": "Food", "account_id": acc.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	if tx := decode[backend.TransactionRow](t, rec); tx.Date != timeNowDate() {
		t.Fatalf("date = %s, want today", tx.Date)
	}
}

func TestBudgetRejectsIncomeCategory(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPut, "/api/budgets/Salary", map[string]string{"limit_amount": "1.000"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/api/summary", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
