package core

// Summary is the derived, non-persisted balance snapshot: per-account current
// balances plus all-time income/expense totals.
type Summary struct {
	TotalIncome     Money
	TotalExpense    Money
	TotalBalance    Money
	AccountBalances map[string]Money
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// Summarize folds the transaction list over the accounts' initial balances.
//
// Each account starts at its initial balance; income adds to and expense
// subtracts from the owning account when it resolves. A transaction whose
// account id is unknown (transient state right after a cascade delete) still
// counts toward the global income/expense totals but toward no per-account
// balance, so a deleted account's history never vanishes from the totals.
//
// Pure and total: empty inputs produce an all-zero summary.
func Summarize(accounts []Account, transactions []Transaction) Summary {
	balances := make(map[string]Money, len(accounts))
	for _, a := range accounts {
		balances[a.ID] = a.InitialBalance
	}

	var income, expense int64
	for _, t := range transactions {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
			if b, ok := balances[t.AccountID]; ok {
				balances[t.AccountID] = Money{Cents: b.Cents + t.Amount.Cents}
			}
		case Expense:
			expense += t.Amount.Cents
			if b, ok := balances[t.AccountID]; ok {
				balances[t.AccountID] = Money{Cents: b.Cents - t.Amount.Cents}
			}
		}
	}

	var total int64
	for _, b := range balances {
		total += b.Cents
	}

	return Summary{
		TotalIncome:     Money{Cents: income},
		TotalExpense:    Money{Cents: expense},
		TotalBalance:    Money{Cents: total},
		AccountBalances: balances,
	}
}

// ExpenseByCategory aggregates all-time expense totals per expense category,
// in fixed category order. Categories without spending are omitted.
func ExpenseByCategory(transactions []Transaction) []CategoryAmount {
	sums := make(map[Category]int64)
	for _, t := range transactions {
		if t.Type == Expense {
			sums[t.Category] += t.Amount.Cents
		}
	}

	var out []CategoryAmount
	for _, c := range ExpenseCategories {
		if cents, ok := sums[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: Money{Cents: cents}})
		}
	}
	return out
}
