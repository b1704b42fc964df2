package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// UncategorizedName labels transactions whose category cannot be resolved.
const UncategorizedName = "Sem categoria"

// MonthFlow is the income and expense total of one YYYY-MM bucket.
type MonthFlow struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Balance is income minus expense for the month.
func (f MonthFlow) Balance() decimal.Decimal {
	return CalculateBalance(f.Income, f.Expense)
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryLookup resolves category ids to display names.
type CategoryLookup map[int64]string

// NewCategoryLookup indexes categories by id.
func NewCategoryLookup(categories []Category) CategoryLookup {
	lookup := make(CategoryLookup, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c.Name
	}
	return lookup
}

// Name returns the category name, or UncategorizedName for dangling or blank entries.
func (l CategoryLookup) Name(id int64) string {
	if name := strings.TrimSpace(l[id]); name != "" {
		return name
	}
	return UncategorizedName
}

// AggregateByMonth sums income and expense per YYYY-MM key.
// Input order does not affect the result.
func AggregateByMonth(transactions []Transaction) map[string]MonthFlow {
	out := make(map[string]MonthFlow)
	for _, t := range transactions {
		key := t.Date.MonthKey()
		flow, ok := out[key]
		if !ok {
			flow = MonthFlow{Income: decimal.Zero, Expense: decimal.Zero}
		}
		if t.Type == Income {
			flow.Income = flow.Income.Add(t.Amount)
		} else {
			flow.Expense = flow.Expense.Add(t.Amount)
		}
		out[key] = flow
	}
	return out
}

// AggregateByCategory sums expense amounts per resolved category name,
// sorted by total descending. Ties keep first-encountered order.
func AggregateByCategory(transactions []Transaction, lookup CategoryLookup) []CategoryAmount {
	index := map[string]int{}
	var out []CategoryAmount
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		name := lookup.Name(t.CategoryID)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryAmount{Name: name, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// TotalBalance sums the stored account balances. It never replays transactions.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// SumByType returns the income and expense totals of transactions.
func SumByType(transactions []Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range transactions {
		if t.Type == Income {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// SpentInMonth sums expenses of one category within month's calendar month.
func SpentInMonth(transactions []Transaction, categoryID int64, month Date) decimal.Decimal {
	key := month.MonthKey()
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == Expense && t.CategoryID == categoryID && t.Date.MonthKey() == key {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// MonthlySeries returns the month aggregation as a slice sorted by key.
// YYYY-MM keys sort chronologically as plain strings.
func MonthlySeries(flows map[string]MonthFlow) []MonthPoint {
	out := make([]MonthPoint, 0, len(flows))
	for key, flow := range flows {
		out = append(out, MonthPoint{Month: key, Income: flow.Income, Expense: flow.Expense})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthPoint is one entry of a chronological income/expense series.
type MonthPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
