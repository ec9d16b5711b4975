package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"duwit/internal/backend"
	"duwit/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, initial_balance FROM accounts WHERE user_id = ? ORDER BY name`,
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

func (r *SQLiteRepository) InsertAccount(ctx context.Context, userID string, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.ID = uuid.NewString()
	row := backend.AccountToRow(a)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, type, initial_balance) VALUES (?, ?, ?, ?, ?)`,
		row.ID, userID, row.Name, row.Type, row.InitialBalance)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved to SQLite", "id", a.ID, "name", a.Name, "type", a.Type)
	return a, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, userID string, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	row := backend.AccountToRow(a)

	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, initial_balance = ? WHERE id = ? AND user_id = ?`,
		row.Name, row.Type, row.InitialBalance, row.ID, userID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, type, category, description, date, account_id, created_at
		 FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC`,
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

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	row := backend.TransactionToRow(t)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, type, category, description, date, account_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, userID, row.Amount, row.Type, row.Category, row.Description,
		row.Date, row.AccountID, row.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransactionsByAccount(ctx context.Context, userID, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE account_id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete transactions by account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.InfoContext(ctx, "Removed transactions for deleted account",
			"account_id", accountID, "count", n)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, limit_amount FROM budgets WHERE user_id = ? ORDER BY category`,
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

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID string, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	row := backend.BudgetToRow(b)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_amount) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, category) DO UPDATE SET limit_amount = excluded.limit_amount`,
		userID, row.Category, row.LimitAmount)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}
