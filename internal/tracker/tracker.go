// Package tracker holds the in-memory working state of one user's finances
// and keeps it consistent with the configured persistence backend. Mutations
// are pessimistic: the backend commits first, memory follows only on success.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"duwit/internal/backend"
	"duwit/internal/core"
)

// Publisher emits change events after successful mutations. It matches the
// amqp client; a nil publisher disables events.
type Publisher interface {
	PublishChange(ctx context.Context, entity, action, id string) error
}

type Tracker struct {
	backend backend.Backend
	events  Publisher
	userID  string
	logger  *slog.Logger

	// mu is held across the backend round trip of each mutation so memory
	// can never observe a write the backend rejected.
	mu           sync.Mutex
	loadToken    uint64
	accounts     []core.Account
	transactions []core.Transaction
	budgets      map[core.Category]core.Budget
}

func New(b backend.Backend, events Publisher, userID string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		backend: b,
		events:  events,
		userID:  userID,
		logger:  logger,
		budgets: make(map[core.Category]core.Budget),
	}
}

// Load fetches accounts, transactions and budgets in parallel and replaces
// the in-memory state wholesale. A reload started while another is in flight
// wins: the slower response is discarded instead of overwriting newer state.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	t.loadToken++
	token := t.loadToken
	t.mu.Unlock()

	var (
		accounts     []core.Account
		transactions []core.Transaction
		budgets      []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = t.backend.ListAccounts(gctx, t.userID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = t.backend.ListTransactions(gctx, t.userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = t.backend.ListBudgets(gctx, t.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.loadToken {
		t.logger.Debug("Discarding stale load result", "token", token, "current", t.loadToken)
		return nil
	}

	t.accounts = accounts
	t.transactions = transactions
	t.budgets = make(map[core.Category]core.Budget, len(budgets))
	for _, b := range budgets {
		t.budgets[b.Category] = b
	}

	t.logger.Info("Loaded state from backend",
		"accounts", len(accounts),
		"transactions", len(transactions),
		"budgets", len(budgets))
	return nil
}

// notConfigured reports whether the mutation hit the disabled backend, which
// is treated as a silent no-op.
func (t *Tracker) notConfigured(ctx context.Context, op string, err error) bool {
	if errors.Is(err, backend.ErrNotConfigured) {
		t.logger.DebugContext(ctx, "Backend disabled, mutation skipped", "op", op)
		return true
	}
	return false
}

func (t *Tracker) publish(entity, action, id string) {
	if t.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.events.PublishChange(ctx, entity, action, id); err != nil {
			t.logger.Warn("Failed to publish change event",
				"entity", entity, "action", action, "id", id, "error", err)
		}
	}()
}

func (t *Tracker) AddAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.backend.InsertAccount(ctx, t.userID, a)
	if err != nil {
		if t.notConfigured(ctx, "add account", err) {
			return core.Account{}, nil
		}
		return core.Account{}, err
	}

	t.accounts = append(t.accounts, stored)
	t.publish("account", "created", stored.ID)
	return stored, nil
}

func (t *Tracker) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.UpdateAccount(ctx, t.userID, a); err != nil {
		if t.notConfigured(ctx, "update account", err) {
			return nil
		}
		return err
	}

	for i := range t.accounts {
		if t.accounts[i].ID == a.ID {
			t.accounts[i] = a
			break
		}
	}
	t.publish("account", "updated", a.ID)
	return nil
}

// DeleteAccount removes the account and every transaction it owns. The
// transactions go first so a failure between the two steps leaves orphan
// transactions rather than a balance that silently excludes them.
func (t *Tracker) DeleteAccount(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.DeleteTransactionsByAccount(ctx, t.userID, id); err != nil {
		if t.notConfigured(ctx, "delete account", err) {
			return nil
		}
		return err
	}
	if err := t.backend.DeleteAccount(ctx, t.userID, id); err != nil {
		return err
	}

	kept := t.transactions[:0]
	for _, tx := range t.transactions {
		if tx.AccountID != id {
			kept = append(kept, tx)
		}
	}
	t.transactions = kept

	keptAccounts := t.accounts[:0]
	for _, a := range t.accounts {
		if a.ID != id {
			keptAccounts = append(keptAccounts, a)
		}
	}
	t.accounts = keptAccounts

	t.publish("account", "deleted", id)
	return nil
}

func (t *Tracker) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.backend.InsertTransaction(ctx, t.userID, tx)
	if err != nil {
		if t.notConfigured(ctx, "add transaction", err) {
			return core.Transaction{}, nil
		}
		return core.Transaction{}, err
	}

	// Newest first, same order the backend lists in.
	t.transactions = append([]core.Transaction{stored}, t.transactions...)
	t.publish("transaction", "created", stored.ID)
	return stored, nil
}

func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.DeleteTransaction(ctx, t.userID, id); err != nil {
		if t.notConfigured(ctx, "delete transaction", err) {
			return nil
		}
		return err
	}

	kept := t.transactions[:0]
	for _, tx := range t.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	t.transactions = kept

	t.publish("transaction", "deleted", id)
	return nil
}

// SetBudget creates or overwrites the single budget row for the category.
// A zero limit is a valid value and means the budget is unset.
func (t *Tracker) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.UpsertBudget(ctx, t.userID, b); err != nil {
		if t.notConfigured(ctx, "set budget", err) {
			return nil
		}
		return err
	}

	t.budgets[b.Category] = b
	t.publish("budget", "updated", string(b.Category))
	return nil
}

// Accounts returns a copy of the current account list.
func (t *Tracker) Accounts() []core.Account {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.Account(nil), t.accounts...)
}

// Transactions returns a copy of the current transaction list, newest first.
func (t *Tracker) Transactions() []core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.Transaction(nil), t.transactions...)
}

// Budgets returns the configured budgets in fixed expense category order.
func (t *Tracker) Budgets() []core.Budget {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]core.Budget, 0, len(t.budgets))
	for _, c := range core.ExpenseCategories {
		if b, ok := t.budgets[c]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Summary derives the balance snapshot from current state.
func (t *Tracker) Summary() core.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return core.Summarize(t.accounts, t.transactions)
}

// ExpenseBreakdown derives all-time expense totals per category.
func (t *Tracker) ExpenseBreakdown() []core.CategoryAmount {
	t.mu.Lock()
	defer t.mu.Unlock()
	return core.ExpenseByCategory(t.transactions)
}

// BudgetReport derives the monthly budget overview for the month of now.
func (t *Tracker) BudgetReport(now time.Time) core.BudgetOverview {
	t.mu.Lock()
	defer t.mu.Unlock()
	budgets := make([]core.Budget, 0, len(t.budgets))
	for _, b := range t.budgets {
		budgets = append(budgets, b)
	}
	return core.BudgetReport(t.transactions, budgets, now)
}
