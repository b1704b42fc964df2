package core

import (
	"github.com/shopspring/decimal"
)

// BudgetStatus classifies how much of a budget has been consumed.
type BudgetStatus string

const (
	BudgetOK      BudgetStatus = "ok"
	BudgetWarning BudgetStatus = "warning"
	BudgetOver    BudgetStatus = "over"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// CalculatePercentage returns value/total*100, or 0 when total is zero.
// The result is not capped.
func CalculatePercentage(value, total decimal.Decimal) float64 {
	return percentage(value, total).InexactFloat64()
}

func percentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total).Mul(hundred)
}

// IsOverBudget reports spent > limit. Reaching the limit exactly is not over.
func IsOverBudget(spent, limit decimal.Decimal) bool {
	return spent.GreaterThan(limit)
}

// IsWarningBudget reports 80 < percentage <= 100. A zero limit has a
// percentage of 0 and never warns.
func IsWarningBudget(spent, limit decimal.Decimal) bool {
	pct := percentage(spent, limit)
	return pct.GreaterThan(warningThreshold) && pct.LessThanOrEqual(hundred)
}

// BudgetStatusOf classifies a budget. Over takes precedence over warning.
func BudgetStatusOf(spent, limit decimal.Decimal) BudgetStatus {
	switch {
	case IsOverBudget(spent, limit):
		return BudgetOver
	case IsWarningBudget(spent, limit):
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// BudgetEvaluation is a budget together with its derived display figures.
type BudgetEvaluation struct {
	Budget
	CategoryName      string          `json:"category_name"`
	Percentage        float64         `json:"percentage"`
	DisplayPercentage float64         `json:"display_percentage"`
	Remaining         decimal.Decimal `json:"remaining"`
	Status            BudgetStatus    `json:"status"`
}

// EvaluateBudget derives percentage, remaining amount and status.
// Remaining never goes below zero; DisplayPercentage is capped at 100 for
// progress bars while Percentage is left unbounded.
func EvaluateBudget(b Budget, lookup CategoryLookup) BudgetEvaluation {
	pct := CalculatePercentage(b.Spent, b.LimitAmount)
	display := pct
	if display > 100 {
		display = 100
	}
	remaining := b.LimitAmount.Sub(b.Spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return BudgetEvaluation{
		Budget:            b,
		CategoryName:      lookup.Name(b.CategoryID),
		Percentage:        pct,
		DisplayPercentage: display,
		Remaining:         remaining,
		Status:            BudgetStatusOf(b.Spent, b.LimitAmount),
	}
}

func EvaluateBudgets(budgets []Budget, lookup CategoryLookup) []BudgetEvaluation {
	out := make([]BudgetEvaluation, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, EvaluateBudget(b, lookup))
	}
	return out
}
