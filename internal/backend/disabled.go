package backend

import (
	"context"

	"duwit/internal/core"
)

// Disabled is the degraded no-backend state: list calls report empty data and
// every mutation returns ErrNotConfigured, which the tracker swallows so the
// action fails silently instead of crashing the caller.
type Disabled struct{}

// NewDisabled returns the no-op backend.
func NewDisabled() *Disabled {
	return &Disabled{}
}

func (*Disabled) ListAccounts(context.Context, string) ([]core.Account, error) {
	return nil, nil
}

func (*Disabled) InsertAccount(context.Context, string, core.Account) (core.Account, error) {
	return core.Account{}, ErrNotConfigured
}

func (*Disabled) UpdateAccount(context.Context, string, core.Account) error {
	return ErrNotConfigured
}

func (*Disabled) DeleteAccount(context.Context, string, string) error {
	return ErrNotConfigured
}

func (*Disabled) ListTransactions(context.Context, string) ([]core.Transaction, error) {
	return nil, nil
}

func (*Disabled) InsertTransaction(context.Context, string, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, ErrNotConfigured
}

func (*Disabled) DeleteTransaction(context.Context, string, string) error {
	return ErrNotConfigured
}

func (*Disabled) DeleteTransactionsByAccount(context.Context, string, string) error {
	return ErrNotConfigured
}

func (*Disabled) ListBudgets(context.Context, string) ([]core.Budget, error) {
	return nil, nil
}

func (*Disabled) UpsertBudget(context.Context, string, core.Budget) error {
	return ErrNotConfigured
}
