package core

import (
	"testing"
)

func TestCalculatePercentage(t *testing.T) {
	cases := []struct {
		value, total string
		want         float64
	}{
		{"50", "200", 25},
		{"300", "200", 150},
		{"123", "0", 0},
		{"0", "0", 0},
	}
	for _, tc := range cases {
		if got := CalculatePercentage(d(tc.value), d(tc.total)); got != tc.want {
			t.Fatalf("CalculatePercentage(%s, %s) = %v, want %v", tc.value, tc.total, got, tc.want)
		}
	}
}

func TestBudgetThresholds(t *testing.T) {
	limit := d("1000")
	cases := []struct {
		spent   string
		over    bool
		warning bool
		status  BudgetStatus
	}{
		{"1000", false, true, BudgetWarning},
		{"1000.01", true, false, BudgetOver},
		{"800", false, false, BudgetOK},
		{"810", false, true, BudgetWarning},
		{"1010", true, false, BudgetOver},
		{"0", false, false, BudgetOK},
	}
	for _, tc := range cases {
		spent := d(tc.spent)
		if got := IsOverBudget(spent, limit); got != tc.over {
			t.Fatalf("IsOverBudget(%s) = %v", tc.spent, got)
		}
		if got := IsWarningBudget(spent, limit); got != tc.warning {
			t.Fatalf("IsWarningBudget(%s) = %v", tc.spent, got)
		}
		if got := BudgetStatusOf(spent, limit); got != tc.status {
			t.Fatalf("BudgetStatusOf(%s) = %s", tc.spent, got)
		}
	}
}

func TestBudgetZeroLimit(t *testing.T) {
	if IsWarningBudget(d("10"), d("0")) {
		t.Fatal("zero limit must never warn")
	}
	if !IsOverBudget(d("10"), d("0")) {
		t.Fatal("spending against a zero limit is over")
	}
	if IsOverBudget(d("0"), d("0")) {
		t.Fatal("nothing spent against a zero limit is not over")
	}
}

func TestEvaluateBudget(t *testing.T) {
	lookup := NewCategoryLookup(fixtureCategories())
	b := Budget{ID: 1, UserID: testUser, CategoryID: 2, Month: NewDate(2025, 11, 1), LimitAmount: d("1000"), Spent: d("1250")}
	ev := EvaluateBudget(b, lookup)
	if ev.CategoryName != "Moradia" {
		t.Fatalf("category = %q", ev.CategoryName)
	}
	if ev.Percentage != 125 || ev.DisplayPercentage != 100 {
		t.Fatalf("percentage = %v display = %v", ev.Percentage, ev.DisplayPercentage)
	}
	if !ev.Remaining.IsZero() {
		t.Fatalf("remaining = %s", ev.Remaining)
	}
	if ev.Status != BudgetOver {
		t.Fatalf("status = %s", ev.Status)
	}

	b.Spent = d("400")
	ev = EvaluateBudget(b, lookup)
	if !ev.Remaining.Equal(d("600")) || ev.Status != BudgetOK {
		t.Fatalf("got %+v", ev)
	}

	b.CategoryID = 42
	if got := EvaluateBudget(b, lookup).CategoryName; got != UncategorizedName {
		t.Fatalf("got %q", got)
	}
}
