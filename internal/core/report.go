package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period names a time-relative report window.
type Period string

const (
	PeriodCurrentMonth Period = "current-month"
	PeriodLast3Months  Period = "last-3-months"
	PeriodLast6Months  Period = "last-6-months"
	PeriodCurrentYear  Period = "current-year"
	PeriodAll          Period = "all"
)

// TopCategoriesLimit is how many categories the top view keeps.
const TopCategoriesLimit = 5

// RecentTransactionsLimit is how many transactions the dashboard lists.
const RecentTransactionsLimit = 5

// Periods lists the supported windows in display order.
func Periods() []Period {
	return []Period{PeriodCurrentMonth, PeriodLast3Months, PeriodLast6Months, PeriodCurrentYear, PeriodAll}
}

// ParsePeriod maps a token to a Period; unknown tokens select PeriodAll.
func ParsePeriod(s string) Period {
	p := Period(s)
	switch p {
	case PeriodCurrentMonth, PeriodLast3Months, PeriodLast6Months, PeriodCurrentYear:
		return p
	default:
		return PeriodAll
	}
}

var periodLabels = map[Period]string{
	PeriodCurrentMonth: "Mês Atual",
	PeriodLast3Months:  "Últimos 3 Meses",
	PeriodLast6Months:  "Últimos 6 Meses",
	PeriodCurrentYear:  "Ano Atual",
	PeriodAll:          "Todo o Período",
}

// Label is the Portuguese display name of the period.
func (p Period) Label() string {
	return periodLabels[ParsePeriod(string(p))]
}

// Start resolves the window's inclusive start date relative to now.
// ok is false for PeriodAll, which has no lower bound.
func (p Period) Start(now time.Time) (start Date, ok bool) {
	y, m := now.Year(), int(now.Month())
	switch p {
	case PeriodCurrentMonth:
		return NewDate(y, m, 1), true
	case PeriodLast3Months:
		return NewDate(y, m-3, 1), true
	case PeriodLast6Months:
		return NewDate(y, m-6, 1), true
	case PeriodCurrentYear:
		return NewDate(y, 1, 1), true
	default:
		return Date{}, false
	}
}

// FilterByPeriod keeps transactions dated on or after the period start.
// Transactions are returned in input order.
func FilterByPeriod(transactions []Transaction, period Period, now time.Time) []Transaction {
	start, ok := period.Start(now)
	if !ok {
		return append([]Transaction(nil), transactions...)
	}
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.OnOrAfter(start) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryFlow is the income and expense total of one category.
type CategoryFlow struct {
	Name    string          `json:"name"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// PeriodReport is the period-scoped summary shown on the reports page and
// written by the exporters.
type PeriodReport struct {
	Period            Period           `json:"period"`
	Start             Date             `json:"start"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Income            decimal.Decimal  `json:"income"`
	Expense           decimal.Decimal  `json:"expense"`
	PeriodBalance     decimal.Decimal  `json:"period_balance"`
	Balance           decimal.Decimal  `json:"balance"`
	TransactionCount  int              `json:"transaction_count"`
	CategoryBreakdown []CategoryFlow   `json:"category_breakdown"`
	TopCategories     []CategoryAmount `json:"top_categories"`
	MonthlySeries     []MonthPoint     `json:"monthly_series"`
	LargestIncome     *Transaction     `json:"largest_income,omitempty"`
	LargestExpense    *Transaction     `json:"largest_expense,omitempty"`
}

// ComposePeriodReport filters transactions to the period window and
// aggregates them. Balance is the stored account total, not a replay.
// Empty input yields zero totals and empty slices.
func ComposePeriodReport(transactions []Transaction, accounts []Account, categories []Category, period Period, now time.Time) PeriodReport {
	period = ParsePeriod(string(period))
	start, _ := period.Start(now)
	filtered := FilterByPeriod(transactions, period, now)
	lookup := NewCategoryLookup(categories)

	income, expense := SumByType(filtered)
	top := AggregateByCategory(filtered, lookup)
	if len(top) > TopCategoriesLimit {
		top = top[:TopCategoriesLimit]
	}

	report := PeriodReport{
		Period:            period,
		Start:             start,
		GeneratedAt:       now,
		Income:            income,
		Expense:           expense,
		PeriodBalance:     CalculateBalance(income, expense),
		Balance:           TotalBalance(accounts),
		TransactionCount:  len(filtered),
		CategoryBreakdown: breakdownByCategory(filtered, lookup),
		TopCategories:     top,
		MonthlySeries:     MonthlySeries(AggregateByMonth(filtered)),
		LargestIncome:     largest(filtered, Income),
		LargestExpense:    largest(filtered, Expense),
	}
	if report.TopCategories == nil {
		report.TopCategories = []CategoryAmount{}
	}
	return report
}

func breakdownByCategory(transactions []Transaction, lookup CategoryLookup) []CategoryFlow {
	index := map[string]int{}
	out := []CategoryFlow{}
	for _, t := range transactions {
		name := lookup.Name(t.CategoryID)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryFlow{Name: name, Income: decimal.Zero, Expense: decimal.Zero})
		}
		if t.Type == Income {
			out[i].Income = out[i].Income.Add(t.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	return out
}

// largest returns the first transaction of typ with the highest amount.
func largest(transactions []Transaction, typ TransactionType) *Transaction {
	var best *Transaction
	for i := range transactions {
		t := transactions[i]
		if t.Type != typ {
			continue
		}
		if best == nil || t.Amount.GreaterThan(best.Amount) {
			best = &t
		}
	}
	return best
}

// Dashboard summarizes the current month.
type Dashboard struct {
	Month         string           `json:"month"`
	MonthLabel    string           `json:"month_label"`
	Income        decimal.Decimal  `json:"income"`
	Expense       decimal.Decimal  `json:"expense"`
	Balance       decimal.Decimal  `json:"balance"`
	TopCategories []CategoryAmount `json:"top_categories"`
	Recent        []Transaction    `json:"recent"`
}

// ComposeDashboard builds the current-month overview: income and expense of
// the month containing now, stored balance, top expense categories and the
// most recent transactions of the whole ledger.
func ComposeDashboard(transactions []Transaction, accounts []Account, categories []Category, now time.Time) Dashboard {
	key := DateOf(now).MonthKey()
	var month []Transaction
	for _, t := range transactions {
		if t.Date.MonthKey() == key {
			month = append(month, t)
		}
	}
	income, expense := SumByType(month)

	top := AggregateByCategory(month, NewCategoryLookup(categories))
	if len(top) > TopCategoriesLimit {
		top = top[:TopCategoriesLimit]
	}
	if top == nil {
		top = []CategoryAmount{}
	}

	return Dashboard{
		Month:         key,
		MonthLabel:    FormatMonth(key),
		Income:        income,
		Expense:       expense,
		Balance:       TotalBalance(accounts),
		TopCategories: top,
		Recent:        RecentTransactions(transactions, RecentTransactionsLimit),
	}
}

// RecentTransactions returns up to n transactions ordered by date, then
// creation time, newest first.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	out := append([]Transaction(nil), transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []Transaction{}
	}
	return out
}
