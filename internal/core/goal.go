package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CalculateGoalProgress returns current/target*100 capped at 100, or 0 when
// target is zero. The stored amounts are never capped.
func CalculateGoalProgress(current, target decimal.Decimal) float64 {
	if target.IsZero() {
		return 0
	}
	pct := percentage(current, target)
	if pct.GreaterThan(hundred) {
		return 100
	}
	if pct.IsNegative() {
		return 0
	}
	return pct.InexactFloat64()
}

// DaysUntilDeadline returns the whole days from now to deadline, rounded up.
// Negative values mean the deadline has passed. The deadline is taken as
// midnight UTC of its date.
func DaysUntilDeadline(deadline Date, now time.Time) int {
	diff := deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// GoalEvaluation is a goal together with its derived display figures.
type GoalEvaluation struct {
	Goal
	Progress  float64         `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
	DaysLeft  int             `json:"days_left"`
	Completed bool            `json:"completed"`
	Overdue   bool            `json:"overdue"`
}

func EvaluateGoal(g Goal, now time.Time) GoalEvaluation {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	days := DaysUntilDeadline(g.Deadline, now)
	completed := g.TargetAmount.IsPositive() && !g.CurrentAmount.LessThan(g.TargetAmount)
	return GoalEvaluation{
		Goal:      g,
		Progress:  CalculateGoalProgress(g.CurrentAmount, g.TargetAmount),
		Remaining: remaining,
		DaysLeft:  days,
		Completed: completed,
		Overdue:   days < 0 && !completed,
	}
}

func EvaluateGoals(goals []Goal, now time.Time) []GoalEvaluation {
	out := make([]GoalEvaluation, 0, len(goals))
	for _, g := range goals {
		out = append(out, EvaluateGoal(g, now))
	}
	return out
}
