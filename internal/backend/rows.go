package backend

import (
	"fmt"
	"time"

	"duwit/internal/core"
)

// Wire rows: the snake_case representation entities take on the way to and
// from a persistence backend (and on the JSON API). All field-name
// translation between the wire shape and the core entities lives here so the
// core never depends on column naming.

const dateLayout = "2006-01-02"

type (
	AccountRow struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Type           string `json:"type"`
		InitialBalance int64  `json:"initial_balance"`
	}

	TransactionRow struct {
		ID          string    `json:"id"`
		Amount      int64     `json:"amount"`
		Type        string    `json:"type"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        string    `json:"date"`
		AccountID   string    `json:"account_id"`
		CreatedAt   time.Time `json:"created_at"`
	}

	BudgetRow struct {
		Category    string `json:"category"`
		LimitAmount int64  `json:"limit_amount"`
	}
)

// AccountToRow converts a core account to its wire representation.
func AccountToRow(a core.Account) AccountRow {
	return AccountRow{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance.Cents,
	}
}

// Account converts the row back to a core account.
func (r AccountRow) Account() core.Account {
	return core.Account{
		ID:             r.ID,
		Name:           r.Name,
		Type:           core.AccountType(r.Type),
		InitialBalance: core.Money{Cents: r.InitialBalance},
	}
}

// TransactionToRow converts a core transaction to its wire representation.
// The effective date travels as a day-precision string.
func TransactionToRow(t core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          t.ID,
		Amount:      t.Amount.Cents,
		Type:        string(t.Type),
		Category:    string(t.Category),
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		AccountID:   t.AccountID,
		CreatedAt:   t.CreatedAt,
	}
}

// Transaction converts the row back to a core transaction.
func (r TransactionRow) Transaction() (core.Transaction, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", r.Date, err)
	}
	return core.Transaction{
		ID:          r.ID,
		Amount:      core.Money{Cents: r.Amount},
		Type:        core.TransactionType(r.Type),
		Category:    core.Category(r.Category),
		Description: r.Description,
		Date:        core.Date{Time: date},
		AccountID:   r.AccountID,
		CreatedAt:   r.CreatedAt,
	}, nil
}

// BudgetToRow converts a core budget to its wire representation.
func BudgetToRow(b core.Budget) BudgetRow {
	return BudgetRow{
		Category:    string(b.Category),
		LimitAmount: b.Limit.Cents,
	}
}

// Budget converts the row back to a core budget.
func (r BudgetRow) Budget() core.Budget {
	return core.Budget{
		Category: core.Category(r.Category),
		Limit:    core.Money{Cents: r.LimitAmount},
	}
}
