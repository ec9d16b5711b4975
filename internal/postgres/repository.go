// Package postgres provides the shared-database backend. Schema setup is
// idempotent so several instances can point at the same database.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"duwit/internal/backend"
	"duwit/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    initial_balance BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    amount BIGINT NOT NULL,
    type TEXT NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    account_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);

CREATE TABLE IF NOT EXISTS budgets (
    user_id TEXT NOT NULL,
    category TEXT NOT NULL,
    limit_amount BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, category)
);
`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, initial_balance FROM accounts WHERE user_id = $1 ORDER BY name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var row backend.AccountRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.InitialBalance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, row.Account())
	}
	return accounts, rows.Err()
}

func (r *Repository) InsertAccount(ctx context.Context, userID string, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.ID = uuid.NewString()
	row := backend.AccountToRow(a)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, user_id, name, type, initial_balance) VALUES ($1, $2, $3, $4, $5)`,
		row.ID, userID, row.Name, row.Type, row.InitialBalance)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved to Postgres", "id", a.ID, "name", a.Name)
	return a, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, userID string, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	row := backend.AccountToRow(a)

	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET name = $1, type = $2, initial_balance = $3 WHERE id = $4 AND user_id = $5`,
		row.Name, row.Type, row.InitialBalance, row.ID, userID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, id string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, amount, type, category, description, date, account_id, created_at
		 FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		var row backend.TransactionRow
		if err := rows.Scan(&row.ID, &row.Amount, &row.Type, &row.Category,
			&row.Description, &row.Date, &row.AccountID, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t, err := row.Transaction()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *Repository) InsertTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	row := backend.TransactionToRow(t)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, amount, type, category, description, date, account_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, userID, row.Amount, row.Type, row.Category, row.Description,
		row.Date, row.AccountID, row.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", t.ID,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTransactionsByAccount(ctx context.Context, userID, accountID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE account_id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete transactions by account: %w", err)
	}
	return nil
}

func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, limit_amount FROM budgets WHERE user_id = $1 ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var row backend.BudgetRow
		if err := rows.Scan(&row.Category, &row.LimitAmount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, row.Budget())
	}
	return budgets, rows.Err()
}

func (r *Repository) UpsertBudget(ctx context.Context, userID string, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	row := backend.BudgetToRow(b)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO budgets (user_id, category, limit_amount) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, category) DO UPDATE SET limit_amount = EXCLUDED.limit_amount`,
		userID, row.Category, row.LimitAmount)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}
