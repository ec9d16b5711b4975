package core

import "time"

const (
	StatusNoBudget   BudgetStatus = "no_budget"
	StatusOnTrack    BudgetStatus = "on_track"
	StatusNearLimit  BudgetStatus = "near_limit"
	StatusOverBudget BudgetStatus = "over_budget"
)

// nearLimitThreshold is the percentage of the limit above which spending is
// flagged as near-limit.
const nearLimitThreshold = 80.0

type (
	BudgetStatus string

	// CategoryBudget reports one expense category's spending against its
	// configured monthly limit.
	CategoryBudget struct {
		Category Category
		Spent    Money
		Limit    Money
		Percent  float64
		Status   BudgetStatus
	}

	// BudgetOverview is the per-category budget report for one calendar
	// month plus the rollup over budgeted categories.
	BudgetOverview struct {
		Year           int
		Month          int // 1-12
		Categories     []CategoryBudget
		TotalAllocated Money
		TotalSpent     Money
		Percent        float64
	}
)

// BudgetReport aggregates expense transactions of the calendar month of now
// against the configured budgets.
//
// Every fixed expense category appears exactly once, including those with no
// spending this month. A limit of zero means "no budget set", never a hard
// cap: spending against it is never flagged over-budget and it contributes
// nothing to the rollup. Over-budget wins over near-limit; near-limit starts
// strictly above 80% of the limit.
func BudgetReport(transactions []Transaction, budgets []Budget, now time.Time) BudgetOverview {
	spending := make(map[Category]int64)
	for _, t := range transactions {
		if t.Type != Expense || !t.Date.SameMonth(now) {
			continue
		}
		spending[t.Category] += t.Amount.Cents
	}

	limits := make(map[Category]int64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.Limit.Cents
	}

	overview := BudgetOverview{
		Year:       now.Year(),
		Month:      int(now.Month()),
		Categories: make([]CategoryBudget, 0, len(ExpenseCategories)),
	}

	var allocated, spentInBudget int64
	for _, c := range ExpenseCategories {
		spent := spending[c]
		limit := limits[c]

		cb := CategoryBudget{
			Category: c,
			Spent:    Money{Cents: spent},
			Limit:    Money{Cents: limit},
			Status:   StatusNoBudget,
		}
		if limit > 0 {
			cb.Percent = float64(spent) / float64(limit) * 100
			switch {
			case spent > limit:
				cb.Status = StatusOverBudget
			case cb.Percent > nearLimitThreshold:
				cb.Status = StatusNearLimit
			default:
				cb.Status = StatusOnTrack
			}
			allocated += limit
			spentInBudget += spent
		}
		overview.Categories = append(overview.Categories, cb)
	}

	overview.TotalAllocated = Money{Cents: allocated}
	overview.TotalSpent = Money{Cents: spentInBudget}
	if allocated > 0 {
		overview.Percent = float64(spentInBudget) / float64(allocated) * 100
	}
	return overview
}
