// Package store defines the persistence ports the services depend on.
// Every call is scoped to one user; implementations must never return or
// modify rows owned by someone else, and report such ids as ErrNotFound.
package store

import (
	"context"
	"errors"

	"financas/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	From       core.Date
	To         core.Date
	Type       core.TransactionType
	CategoryID int64
	AccountID  int64
	Limit      int
}

// Match reports whether t passes the filter. Limit is not considered.
func (f TransactionFilter) Match(t core.Transaction) bool {
	if !f.From.IsZero() && t.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To.Time) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryID != 0 && t.CategoryID != f.CategoryID {
		return false
	}
	if f.AccountID != 0 && t.AccountID != f.AccountID {
		return false
	}
	return true
}

type (
	// Transactions are listed by date, then creation time, newest first.
	Transactions interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, userID uuid.UUID, id int64) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID uuid.UUID, id int64) error
		ListTransactions(ctx context.Context, userID uuid.UUID, f TransactionFilter) ([]core.Transaction, error)
	}

	// Categories are listed by name. An empty type lists both kinds.
	Categories interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, userID uuid.UUID, id int64) error
		ListCategories(ctx context.Context, userID uuid.UUID, typ core.TransactionType) ([]core.Category, error)
	}

	// Accounts are listed by name.
	Accounts interface {
		CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
		UpdateAccount(ctx context.Context, a core.Account) (core.Account, error)
		DeleteAccount(ctx context.Context, userID uuid.UUID, id int64) error
		ListAccounts(ctx context.Context, userID uuid.UUID) ([]core.Account, error)
	}

	// Budgets are unique per (user, category, month) and listed newest first.
	// UpsertBudget only replaces the limit of an existing row; spent is
	// written exclusively through SetBudgetSpent.
	Budgets interface {
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, userID uuid.UUID, id int64) error
		// ListBudgets lists one month's budgets, or all of them for a zero month.
		ListBudgets(ctx context.Context, userID uuid.UUID, month core.Date) ([]core.Budget, error)
		SetBudgetSpent(ctx context.Context, userID uuid.UUID, categoryID int64, month core.Date, spent decimal.Decimal) error
		// BudgetOwners lists users that own at least one budget.
		BudgetOwners(ctx context.Context) ([]uuid.UUID, error)
	}

	// Goals are listed by deadline, then creation time newest first.
	Goals interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		DeleteGoal(ctx context.Context, userID uuid.UUID, id int64) error
		ListGoals(ctx context.Context, userID uuid.UUID) ([]core.Goal, error)
	}

	Profiles interface {
		GetProfile(ctx context.Context, id uuid.UUID) (core.Profile, error)
		UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error)
	}

	// Store bundles every port. Both the memory and SQL stores implement it.
	Store interface {
		Transactions
		Categories
		Accounts
		Budgets
		Goals
		Profiles
		Ping(ctx context.Context) error
		Close() error
	}
)
