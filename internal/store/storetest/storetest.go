// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Factory builds an empty store whose created_at stamps come from now.
type Factory func(t *testing.T, now func() time.Time) store.Store

// Clock hands out strictly increasing timestamps.
type Clock struct {
	t time.Time
}

func NewClock() *Clock {
	return &Clock{t: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Run executes the shared suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore) })
	t.Run("categories and accounts", func(t *testing.T) { testCategoriesAccounts(t, newStore) })
	t.Run("budgets", func(t *testing.T) { testBudgets(t, newStore) })
	t.Run("goals", func(t *testing.T) { testGoals(t, newStore) })
	t.Run("profiles", func(t *testing.T) { testProfiles(t, newStore) })
}

func testTransactions(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock().Now)
	user, other := uuid.New(), uuid.New()

	mk := func(u uuid.UUID, date core.Date, amount string, typ core.TransactionType) core.Transaction {
		tx, err := core.NewTransaction(u, typ, dec(amount), date, "entry", 1, 1)
		if err != nil {
			t.Fatal(err)
		}
		created, err := s.CreateTransaction(ctx, tx)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return created
	}

	a := mk(user, core.NewDate(2025, 10, 15), "2000", core.Expense)
	b := mk(user, core.NewDate(2025, 11, 5), "1500.25", core.Expense)
	c := mk(user, core.NewDate(2025, 11, 5), "5000", core.Income)
	mk(other, core.NewDate(2025, 11, 6), "1", core.Expense)

	if a.ID == 0 || a.CreatedAt.IsZero() {
		t.Fatalf("id and created_at must be assigned: %+v", a)
	}

	list, err := s.ListTransactions(ctx, user, store.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d transactions", len(list))
	}
	if list[0].ID != c.ID || list[1].ID != b.ID || list[2].ID != a.ID {
		t.Fatalf("ordering wrong: %d %d %d", list[0].ID, list[1].ID, list[2].ID)
	}
	if !list[1].Amount.Equal(dec("1500.25")) || list[1].Date.String() != "2025-11-05" {
		t.Fatalf("round trip lost data: %+v", list[1])
	}

	filtered, _ := s.ListTransactions(ctx, user, store.TransactionFilter{From: core.NewDate(2025, 11, 1), Type: core.Expense})
	if len(filtered) != 1 || filtered[0].ID != b.ID {
		t.Fatalf("filter: %+v", filtered)
	}
	limited, _ := s.ListTransactions(ctx, user, store.TransactionFilter{Limit: 2})
	if len(limited) != 2 {
		t.Fatalf("limit: %d", len(limited))
	}

	if _, err := s.GetTransaction(ctx, other, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-user get must be not found, got %v", err)
	}

	a.Amount = dec("2100")
	a.Description = "rent"
	updated, err := s.UpdateTransaction(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.CreatedAt.Equal(a.CreatedAt) {
		t.Fatal("update must keep created_at")
	}
	got, _ := s.GetTransaction(ctx, user, a.ID)
	if !got.Amount.Equal(dec("2100")) || got.Description != "rent" {
		t.Fatalf("update not stored: %+v", got)
	}

	a.UserID = other
	if _, err := s.UpdateTransaction(ctx, a); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-user update must be not found, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, other, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-user delete must be not found, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, user, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTransaction(ctx, user, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted row still present: %v", err)
	}
}

func testCategoriesAccounts(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock().Now)
	user := uuid.New()

	for _, c := range []struct {
		name string
		typ  core.TransactionType
	}{{"Transporte", core.Expense}, {"alimentação", core.Expense}, {"Salário", core.Income}} {
		cat, _ := core.NewCategory(user, c.name, c.typ)
		if _, err := s.CreateCategory(ctx, cat); err != nil {
			t.Fatal(err)
		}
	}
	all, _ := s.ListCategories(ctx, user, "")
	if len(all) != 3 || all[0].Name != "alimentação" {
		t.Fatalf("categories: %+v", all)
	}
	expense, _ := s.ListCategories(ctx, user, core.Expense)
	if len(expense) != 2 {
		t.Fatalf("expense categories: %+v", expense)
	}
	if err := s.DeleteCategory(ctx, uuid.New(), all[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-user delete: %v", err)
	}
	if err := s.DeleteCategory(ctx, user, all[0].ID); err != nil {
		t.Fatal(err)
	}

	acc, _ := core.NewAccount(user, "Nubank", core.Bank, dec("1234.56"), "")
	created, err := s.CreateAccount(ctx, acc)
	if err != nil {
		t.Fatal(err)
	}
	cash, _ := core.NewAccount(user, "Carteira", core.Cash, dec("-10"), "")
	if _, err := s.CreateAccount(ctx, cash); err != nil {
		t.Fatal(err)
	}
	created.Balance = dec("99.90")
	if _, err := s.UpdateAccount(ctx, created); err != nil {
		t.Fatal(err)
	}
	accounts, _ := s.ListAccounts(ctx, user)
	if len(accounts) != 2 || accounts[0].Name != "Carteira" || !accounts[1].Balance.Equal(dec("99.90")) {
		t.Fatalf("accounts: %+v", accounts)
	}
	if err := s.DeleteAccount(ctx, user, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteAccount(ctx, user, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func testBudgets(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock().Now)
	user := uuid.New()
	nov := core.NewDate(2025, 11, 1)

	b, _ := core.NewBudget(user, 7, nov, dec("500"))
	first, err := s.UpsertBudget(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBudgetSpent(ctx, user, 7, nov, dec("120.50")); err != nil {
		t.Fatal(err)
	}

	b.LimitAmount = dec("800")
	second, err := s.UpsertBudget(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must keep the row: %d vs %d", second.ID, first.ID)
	}
	if !second.Spent.Equal(dec("120.50")) || !second.LimitAmount.Equal(dec("800")) {
		t.Fatalf("upsert must keep spent and replace limit: %+v", second)
	}

	oct, _ := core.NewBudget(user, 7, core.NewDate(2025, 10, 1), dec("300"))
	if _, err := s.UpsertBudget(ctx, oct); err != nil {
		t.Fatal(err)
	}

	month, _ := s.ListBudgets(ctx, user, nov)
	if len(month) != 1 || month[0].Month.String() != "2025-11-01" {
		t.Fatalf("month budgets: %+v", month)
	}
	all, _ := s.ListBudgets(ctx, user, core.Date{})
	if len(all) != 2 || all[0].Month.String() != "2025-10-01" {
		t.Fatalf("all budgets newest first: %+v", all)
	}

	owners, _ := s.BudgetOwners(ctx)
	if len(owners) != 1 || owners[0] != user {
		t.Fatalf("owners: %v", owners)
	}

	if err := s.DeleteBudget(ctx, user, first.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteBudget(ctx, user, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func testGoals(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock().Now)
	user := uuid.New()

	mk := func(name string, deadline core.Date) core.Goal {
		g, err := core.NewGoal(user, name, dec("1000"), dec("0"), deadline)
		if err != nil {
			t.Fatal(err)
		}
		created, err := s.CreateGoal(ctx, g)
		if err != nil {
			t.Fatal(err)
		}
		return created
	}
	late := mk("Carro", core.NewDate(2027, 1, 1))
	soonOld := mk("Viagem", core.NewDate(2026, 6, 1))
	soonNew := mk("Reserva", core.NewDate(2026, 6, 1))

	goals, _ := s.ListGoals(ctx, user)
	if len(goals) != 3 || goals[0].ID != soonNew.ID || goals[1].ID != soonOld.ID || goals[2].ID != late.ID {
		t.Fatalf("goal order: %+v", goals)
	}

	late.CurrentAmount = dec("1500")
	if _, err := s.UpdateGoal(ctx, late); err != nil {
		t.Fatal(err)
	}
	goals, _ = s.ListGoals(ctx, user)
	if !goals[2].CurrentAmount.Equal(dec("1500")) {
		t.Fatalf("current amount must be stored uncapped: %s", goals[2].CurrentAmount)
	}
	if err := s.DeleteGoal(ctx, user, late.ID); err != nil {
		t.Fatal(err)
	}
}

func testProfiles(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, NewClock().Now)
	id := uuid.New()

	if _, err := s.GetProfile(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	p, err := s.UpsertProfile(ctx, core.Profile{ID: id, Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	p.Name = "Ana Souza"
	updated, err := s.UpsertProfile(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) || !updated.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("timestamps: %+v vs %+v", updated, p)
	}
	got, _ := s.GetProfile(ctx, id)
	if got.Name != "Ana Souza" {
		t.Fatalf("got %+v", got)
	}
}
