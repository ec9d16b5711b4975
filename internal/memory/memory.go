// Package memory provides a session-only backend: full CRUD semantics with
// nothing written to disk. It backs the default configuration and the tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"duwit/internal/core"
)

type userData struct {
	accounts     []core.Account
	transactions []core.Transaction
	budgets      map[core.Category]core.Budget
}

// Store holds all users' data behind one mutex. Snapshots returned to
// callers are copies; internal state never escapes.
type Store struct {
	mu    sync.Mutex
	users map[string]*userData
}

func New() *Store {
	return &Store{users: make(map[string]*userData)}
}

func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{budgets: make(map[core.Category]core.Budget)}
		s.users[userID] = u
	}
	return u
}

func (s *Store) ListAccounts(_ context.Context, userID string) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	return append([]core.Account(nil), u.accounts...), nil
}

func (s *Store) InsertAccount(_ context.Context, userID string, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.NewString()
	u := s.user(userID)
	u.accounts = append(u.accounts, a)
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, userID string, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	for i := range u.accounts {
		if u.accounts[i].ID == a.ID {
			u.accounts[i] = a
			return nil
		}
	}
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	kept := u.accounts[:0]
	for _, a := range u.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	u.accounts = kept
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	out := append([]core.Transaction(nil), u.transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) InsertTransaction(_ context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	u := s.user(userID)
	u.transactions = append(u.transactions, t)
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	kept := u.transactions[:0]
	for _, t := range u.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	u.transactions = kept
	return nil
}

func (s *Store) DeleteTransactionsByAccount(_ context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	kept := u.transactions[:0]
	for _, t := range u.transactions {
		if t.AccountID != accountID {
			kept = append(kept, t)
		}
	}
	u.transactions = kept
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	out := make([]core.Budget, 0, len(u.budgets))
	for _, c := range core.ExpenseCategories {
		if b, ok := u.budgets[c]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, userID string, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).budgets[b.Category] = b
	return nil
}
