package core

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		p     Period
		start string
		ok    bool
	}{
		{PeriodCurrentMonth, "2025-02-01", true},
		{PeriodLast3Months, "2024-11-01", true},
		{PeriodLast6Months, "2024-08-01", true},
		{PeriodCurrentYear, "2025-01-01", true},
		{PeriodAll, "", false},
	}
	for _, tc := range cases {
		start, ok := tc.p.Start(now)
		if ok != tc.ok || start.String() != tc.start {
			t.Fatalf("%s: got %s %v", tc.p, start, ok)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	if got := ParsePeriod("last-3-months"); got != PeriodLast3Months {
		t.Fatalf("got %s", got)
	}
	if got := ParsePeriod("next-week"); got != PeriodAll {
		t.Fatalf("unknown token should select all, got %s", got)
	}
}

func TestPeriodLabel(t *testing.T) {
	for _, p := range Periods() {
		if p.Label() == "" {
			t.Errorf("%s has no label", p)
		}
	}
	if got := Period("bogus").Label(); got != "Todo o Período" {
		t.Errorf("got %q", got)
	}
}

func TestComposePeriodReport(t *testing.T) {
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	accounts := []Account{{Balance: d("3000")}, {Balance: d("200")}}

	r := ComposePeriodReport(fixtureLedger(), accounts, fixtureCategories(), PeriodCurrentMonth, now)
	if r.TransactionCount != 3 {
		t.Fatalf("count = %d", r.TransactionCount)
	}
	if !r.Income.Equal(d("5000")) || !r.Expense.Equal(d("2300")) || !r.PeriodBalance.Equal(d("2700")) {
		t.Fatalf("totals: %s %s %s", r.Income, r.Expense, r.PeriodBalance)
	}
	if !r.Balance.Equal(d("3200")) {
		t.Fatalf("balance must be the stored account total, got %s", r.Balance)
	}
	if r.LargestIncome == nil || r.LargestIncome.ID != 1 {
		t.Fatalf("largest income = %+v", r.LargestIncome)
	}
	if r.LargestExpense == nil || r.LargestExpense.ID != 2 {
		t.Fatalf("largest expense = %+v", r.LargestExpense)
	}
	if len(r.CategoryBreakdown) != 3 || r.CategoryBreakdown[0].Name != "Salário" {
		t.Fatalf("breakdown = %+v", r.CategoryBreakdown)
	}
	if len(r.MonthlySeries) != 1 || r.MonthlySeries[0].Month != "2025-11" {
		t.Fatalf("series = %+v", r.MonthlySeries)
	}

	all := ComposePeriodReport(fixtureLedger(), accounts, fixtureCategories(), PeriodAll, now)
	if all.TransactionCount != 5 || !all.Expense.Equal(d("4300")) {
		t.Fatalf("all: count=%d expense=%s", all.TransactionCount, all.Expense)
	}
	if !all.Start.IsZero() {
		t.Fatalf("all-time report has no start, got %s", all.Start)
	}
}

func TestComposePeriodReportEmpty(t *testing.T) {
	r := ComposePeriodReport(nil, nil, nil, PeriodCurrentYear, time.Now())
	if !r.Income.IsZero() || !r.Expense.IsZero() || !r.Balance.IsZero() {
		t.Fatalf("expected zero totals: %+v", r)
	}
	if r.TopCategories == nil || len(r.TopCategories) != 0 {
		t.Fatalf("expected empty top categories, got %v", r.TopCategories)
	}
	if r.LargestIncome != nil || r.LargestExpense != nil {
		t.Fatal("expected no largest transactions")
	}
}

func TestTopCategoriesLimited(t *testing.T) {
	var cats []Category
	var ledger []Transaction
	for i := int64(1); i <= 7; i++ {
		cats = append(cats, Category{ID: i, Name: string(rune('A' + i - 1))})
		ledger = append(ledger, tx(i, NewDate(2025, 11, 2), "10", Expense, i))
	}
	now := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	r := ComposePeriodReport(ledger, nil, cats, PeriodCurrentMonth, now)
	if len(r.TopCategories) != TopCategoriesLimit {
		t.Fatalf("got %d", len(r.TopCategories))
	}
	dash := ComposeDashboard(ledger, nil, cats, now)
	if len(dash.TopCategories) != TopCategoriesLimit || len(dash.Recent) != RecentTransactionsLimit {
		t.Fatalf("dashboard: top=%d recent=%d", len(dash.TopCategories), len(dash.Recent))
	}
}

func TestComposeDashboard(t *testing.T) {
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	dash := ComposeDashboard(fixtureLedger(), []Account{{Balance: d("10")}}, fixtureCategories(), now)
	if dash.Month != "2025-11" || dash.MonthLabel != "novembro de 2025" {
		t.Fatalf("month = %s %s", dash.Month, dash.MonthLabel)
	}
	if !dash.Income.Equal(d("5000")) || !dash.Expense.Equal(d("2300")) || !dash.Balance.Equal(d("10")) {
		t.Fatalf("got %+v", dash)
	}
	if len(dash.TopCategories) != 2 || dash.TopCategories[0].Name != "Moradia" {
		t.Fatalf("top = %+v", dash.TopCategories)
	}
	if dash.Recent[0].ID != 3 || dash.Recent[len(dash.Recent)-1].ID != 4 {
		t.Fatalf("recent order = %+v", dash.Recent)
	}
}

func TestRecentTransactionsTieBreak(t *testing.T) {
	base := time.Date(2025, 11, 1, 8, 0, 0, 0, time.UTC)
	a := tx(1, NewDate(2025, 11, 3), "1", Expense, 1)
	a.CreatedAt = base
	b := tx(2, NewDate(2025, 11, 3), "1", Expense, 1)
	b.CreatedAt = base.Add(time.Hour)
	got := RecentTransactions([]Transaction{a, b}, 5)
	if got[0].ID != 2 {
		t.Fatalf("later created should come first, got %+v", got)
	}
}
