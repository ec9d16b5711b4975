package backend

import (
	"context"
	"errors"

	"duwit/internal/core"
)

// ErrNotConfigured is returned by the disabled backend for every mutation.
// Callers treat it as a silent no-op, not a failure.
var ErrNotConfigured = errors.New("persistence backend not configured")

// Stores are the per-table ports the tracker core needs. Every call is scoped
// by an opaque user identifier; inserts return the stored entity with its
// generated id and any server-assigned timestamps.
type (
	AccountStore interface {
		ListAccounts(ctx context.Context, userID string) ([]core.Account, error)
		InsertAccount(ctx context.Context, userID string, a core.Account) (core.Account, error)
		UpdateAccount(ctx context.Context, userID string, a core.Account) error
		DeleteAccount(ctx context.Context, userID, id string) error
	}

	TransactionStore interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		InsertTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
		// DeleteTransactionsByAccount removes every transaction owned by the
		// account, as the first half of an account cascade delete.
		DeleteTransactionsByAccount(ctx context.Context, userID, accountID string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		// UpsertBudget creates or overwrites the one budget row for the
		// category, including overwriting with a zero (unset) limit.
		UpsertBudget(ctx context.Context, userID string, b core.Budget) error
	}
)

// Backend is the unified persistence interface behind the tracker.
type Backend interface {
	AccountStore
	TransactionStore
	BudgetStore
}

// CleanupFunc represents a cleanup function for backend resources.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresURL string
}

// Type represents the kind of backend.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
	MemoryBackend   Type = "memory"
	DisabledBackend Type = "disabled"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, PostgresBackend, MemoryBackend, DisabledBackend:
		return true
	default:
		return false
	}
}

// Persistent reports whether the backend type actually stores mutations.
func (t Type) Persistent() bool {
	return t == SQLiteBackend || t == PostgresBackend
}
