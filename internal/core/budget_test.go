package core

import (
	"testing"
	"time"
)

func monthTx(cat Category, cents int64, date Date) Transaction {
	return Transaction{
		ID:        "t",
		Amount:    Money{Cents: cents},
		Type:      Expense,
		Category:  cat,
		Date:      date,
		AccountID: "a",
	}
}

func findCategory(t *testing.T, o BudgetOverview, c Category) CategoryBudget {
	t.Helper()
	for _, cb := range o.Categories {
		if cb.Category == c {
			return cb
		}
	}
	t.Fatalf("category %s missing from overview", c)
	return CategoryBudget{}
}

func TestBudgetReportAllCategoriesPresent(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	o := BudgetReport(nil, nil, now)
	if len(o.Categories) != len(ExpenseCategories) {
		t.Fatalf("expected %d categories, got %d", len(ExpenseCategories), len(o.Categories))
	}
	for _, cb := range o.Categories {
		if cb.Spent.Cents != 0 || cb.Status != StatusNoBudget {
			t.Errorf("category %s: expected zero spend and no_budget, got %+v", cb.Category, cb)
		}
	}
	if o.Year != 2025 || o.Month != 6 {
		t.Errorf("overview month = %d/%d, want 2025/6", o.Year, o.Month)
	}
}

// A limit of zero is "unset", never a hard cap: spending against it must not
// flag over-budget.
func TestBudgetReportZeroLimitNeverOver(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		monthTx(CategoryFood, 5000000, NewDate(2025, 6, 10)), // 50,000 units
	}

	o := BudgetReport(transactions, nil, now)
	food := findCategory(t, o, CategoryFood)
	if food.Status != StatusNoBudget {
		t.Errorf("status = %s, want no_budget", food.Status)
	}
	if food.Spent.Cents != 5000000 {
		t.Errorf("spent = %d, want 5000000", food.Spent.Cents)
	}
	if food.Percent != 0 {
		t.Errorf("percent = %v, want 0 for unset limit", food.Percent)
	}

	// Explicit zero-limit row behaves the same as a missing row.
	o = BudgetReport(transactions, []Budget{{Category: CategoryFood, Limit: Money{Cents: 0}}}, now)
	if findCategory(t, o, CategoryFood).Status != StatusNoBudget {
		t.Errorf("explicit zero limit must read as no_budget")
	}
}

func TestBudgetReportStatusThresholds(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	budgets := []Budget{{Category: CategoryFood, Limit: Money{Cents: 10000000}}} // 100,000 units

	cases := []struct {
		name       string
		spentCents int64
		want       BudgetStatus
		wantPct    float64
	}{
		{"on track", 5000000, StatusOnTrack, 50},
		{"exactly 80 percent is still on track", 8000000, StatusOnTrack, 80},
		{"near limit", 8500000, StatusNearLimit, 85},
		{"exactly at limit is near, not over", 10000000, StatusNearLimit, 100},
		{"over budget", 12000000, StatusOverBudget, 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transactions := []Transaction{monthTx(CategoryFood, tc.spentCents, NewDate(2025, 6, 5))}
			o := BudgetReport(transactions, budgets, now)
			food := findCategory(t, o, CategoryFood)
			if food.Status != tc.want {
				t.Errorf("status = %s, want %s", food.Status, tc.want)
			}
			if food.Percent != tc.wantPct {
				t.Errorf("percent = %v, want %v", food.Percent, tc.wantPct)
			}
		})
	}
}

// Spending is scoped strictly to the calendar month/year of now.
func TestBudgetReportMonthScope(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		monthTx(CategoryFood, 100, NewDate(2025, 6, 1)),
		monthTx(CategoryFood, 200, NewDate(2025, 5, 31)), // prior month
		monthTx(CategoryFood, 400, NewDate(2024, 6, 15)), // same month, prior year
		monthTx(CategoryFood, 800, NewDate(2025, 7, 1)),  // next month
	}

	o := BudgetReport(transactions, nil, now)
	if got := findCategory(t, o, CategoryFood).Spent.Cents; got != 100 {
		t.Fatalf("spent = %d, want 100 (current month only)", got)
	}
}

func TestBudgetReportIncomeIgnored(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{
			ID: "t", Amount: Money{Cents: 999}, Type: Income,
			Category: CategoryOthers, Date: NewDate(2025, 6, 2), AccountID: "a",
		},
	}
	o := BudgetReport(transactions, nil, now)
	if got := findCategory(t, o, CategoryOthers).Spent.Cents; got != 0 {
		t.Fatalf("income must not count as spending, got %d", got)
	}
}

// Categories without a budget do not contribute to the rollup even though
// their spending is tracked per-category.
func TestBudgetReportRollup(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	budgets := []Budget{
		{Category: CategoryFood, Limit: Money{Cents: 1000}},
		{Category: CategoryTransport, Limit: Money{Cents: 500}},
	}
	transactions := []Transaction{
		monthTx(CategoryFood, 600, NewDate(2025, 6, 3)),
		monthTx(CategoryShopping, 9999, NewDate(2025, 6, 3)), // unbudgeted
	}

	o := BudgetReport(transactions, budgets, now)
	if o.TotalAllocated.Cents != 1500 {
		t.Errorf("allocated = %d, want 1500", o.TotalAllocated.Cents)
	}
	if o.TotalSpent.Cents != 600 {
		t.Errorf("rollup spent = %d, want 600 (unbudgeted spending excluded)", o.TotalSpent.Cents)
	}
	if o.Percent != 40 {
		t.Errorf("overall percent = %v, want 40", o.Percent)
	}
	if got := findCategory(t, o, CategoryShopping).Spent.Cents; got != 9999 {
		t.Errorf("unbudgeted spending still tracked per category, got %d", got)
	}
}
