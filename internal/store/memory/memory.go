// Package memory is an in-process store used by default and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	transactions map[int64]core.Transaction
	categories   map[int64]core.Category
	accounts     map[int64]core.Account
	budgets      map[int64]core.Budget
	goals        map[int64]core.Goal
	profiles     map[uuid.UUID]core.Profile
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:          time.Now,
		transactions: map[int64]core.Transaction{},
		categories:   map[int64]core.Category{},
		accounts:     map[int64]core.Account{},
		budgets:      map[int64]core.Budget{},
		goals:        map[int64]core.Goal{},
		profiles:     map[uuid.UUID]core.Profile{},
	}
}

// WithClock sets the time source used for created_at stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	t.CreatedAt = s.now()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.transactions[t.ID]
	if !ok || old.UserID != t.UserID {
		return core.Transaction{}, store.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, userID uuid.UUID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID uuid.UUID, f store.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	out := []core.Transaction{}
	for _, t := range s.transactions {
		if t.UserID == userID && f.Match(t) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Categories

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = s.now()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID uuid.UUID, typ core.TransactionType) ([]core.Category, error) {
	s.mu.Lock()
	out := []core.Category{}
	for _, c := range s.categories {
		if c.UserID == userID && (typ == "" || c.Type == typ) {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, nil
}

// Accounts

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	a.CreatedAt = s.now()
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.accounts[a.ID]
	if !ok || old.UserID != a.UserID {
		return core.Account{}, store.ErrNotFound
	}
	a.CreatedAt = old.CreatedAt
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) ListAccounts(_ context.Context, userID uuid.UUID) ([]core.Account, error) {
	s.mu.Lock()
	out := []core.Account{}
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, nil
}

// Budgets

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.budgets {
		if sameBudgetKey(existing, b.UserID, b.CategoryID, b.Month) {
			existing.LimitAmount = b.LimitAmount
			s.budgets[id] = existing
			return existing, nil
		}
	}
	b.ID = s.id()
	b.CreatedAt = s.now()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID uuid.UUID, month core.Date) ([]core.Budget, error) {
	s.mu.Lock()
	out := []core.Budget{}
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if !month.IsZero() && b.Month.MonthKey() != month.MonthKey() {
			continue
		}
		out = append(out, b)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// SetBudgetSpent is a no-op when no budget exists for the key.
func (s *Store) SetBudgetSpent(_ context.Context, userID uuid.UUID, categoryID int64, month core.Date, spent decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range s.budgets {
		if sameBudgetKey(b, userID, categoryID, month) {
			b.Spent = spent
			s.budgets[id] = b
		}
	}
	return nil
}

func (s *Store) BudgetOwners(context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[uuid.UUID]struct{}{}
	out := []uuid.UUID{}
	for _, b := range s.budgets {
		if _, ok := seen[b.UserID]; !ok {
			seen[b.UserID] = struct{}{}
			out = append(out, b.UserID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func sameBudgetKey(b core.Budget, userID uuid.UUID, categoryID int64, month core.Date) bool {
	return b.UserID == userID && b.CategoryID == categoryID && b.Month.MonthKey() == month.MonthKey()
}

// Goals

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	g.CreatedAt = s.now()
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.goals[g.ID]
	if !ok || old.UserID != g.UserID {
		return core.Goal{}, store.ErrNotFound
	}
	g.CreatedAt = old.CreatedAt
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID uuid.UUID) ([]core.Goal, error) {
	s.mu.Lock()
	out := []core.Goal{}
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Deadline.Equal(b.Deadline.Time) {
			return a.Deadline.Before(b.Deadline.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

// Profiles

func (s *Store) GetProfile(_ context.Context, id uuid.UUID) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return core.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertProfile(_ context.Context, p core.Profile) (core.Profile, error) {
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if old, ok := s.profiles[p.ID]; ok {
		p.CreatedAt = old.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
	return p, nil
}

func byName(a, b string, idA, idB int64) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
