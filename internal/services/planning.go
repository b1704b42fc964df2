package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/store"

	"github.com/google/uuid"
)

// SpentRefresher recomputes the spent amount of budgets.
type SpentRefresher interface {
	Refresh(ctx context.Context, userID uuid.UUID, keys ...amqp.BudgetKey) error
}

type PlanningStore interface {
	store.Budgets
	store.Goals
	store.Categories
}

type BudgetInput struct {
	CategoryID int64
	Month      string
	Limit      string
}

type GoalInput struct {
	Name     string
	Target   string
	Current  string
	Deadline string
}

// PlanningService manages budgets and savings goals and returns them with
// their derived progress.
type PlanningService struct {
	store     PlanningStore
	refresher SpentRefresher
	now       func() time.Time
	logger    *applog.Logger
}

func NewPlanningService(st PlanningStore, refresher SpentRefresher, logger *applog.Logger) *PlanningService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &PlanningService{
		store:     st,
		refresher: refresher,
		now:       time.Now,
		logger:    logger.WithComponent(applog.ComponentPlanning),
	}
}

func (s *PlanningService) WithClock(now func() time.Time) *PlanningService {
	s.now = now
	return s
}

func (s *PlanningService) lookup(ctx context.Context, userID uuid.UUID) (core.CategoryLookup, error) {
	cats, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return core.NewCategoryLookup(cats), nil
}

// Budgets

// UpsertBudget sets the limit of a category's monthly budget, creating the
// budget when needed. A new budget gets its spent amount right away.
func (s *PlanningService) UpsertBudget(ctx context.Context, userID uuid.UUID, in BudgetInput) (core.BudgetEvaluation, error) {
	month, err := core.ParseMonth(in.Month)
	if err != nil {
		return core.BudgetEvaluation{}, &ValidationError{Message: "Mês inválido", Err: err}
	}
	limit, err := parseNumber(in.Limit)
	if err != nil {
		return core.BudgetEvaluation{}, err
	}
	b, err := core.NewBudget(userID, in.CategoryID, month, limit)
	if err != nil {
		return core.BudgetEvaluation{}, fromDomain(err)
	}

	saved, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.BudgetEvaluation{}, fmt.Errorf("upsert budget: %w", err)
	}

	if s.refresher != nil {
		key := amqp.BudgetKey{CategoryID: saved.CategoryID, Month: saved.Month}
		if err := s.refresher.Refresh(ctx, userID, key); err != nil {
			s.logger.WarnContext(ctx, "Failed to refresh budget spent", "error", err, applog.FieldCategoryID, saved.CategoryID)
		} else if fresh, err := s.findBudget(ctx, userID, saved.ID, saved.Month); err == nil {
			saved = fresh
		}
	}

	lookup, err := s.lookup(ctx, userID)
	if err != nil {
		return core.BudgetEvaluation{}, err
	}

	s.logger.InfoContext(ctx, "Budget saved",
		applog.FieldUserID, userID.String(),
		applog.FieldCategoryID, saved.CategoryID,
		applog.FieldMonth, saved.Month.MonthKey())
	return core.EvaluateBudget(saved, lookup), nil
}

func (s *PlanningService) findBudget(ctx context.Context, userID uuid.UUID, id int64, month core.Date) (core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID, month)
	if err != nil {
		return core.Budget{}, err
	}
	for _, b := range budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Budget{}, store.ErrNotFound
}

// ListBudgets evaluates the budgets of month, or of every month when month
// is empty.
func (s *PlanningService) ListBudgets(ctx context.Context, userID uuid.UUID, month string) ([]core.BudgetEvaluation, error) {
	var m core.Date
	if month != "" {
		var err error
		if m, err = core.ParseMonth(month); err != nil {
			return nil, &ValidationError{Message: "Mês inválido", Err: err}
		}
	}
	budgets, err := s.store.ListBudgets(ctx, userID, m)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	lookup, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.EvaluateBudgets(budgets, lookup), nil
}

func (s *PlanningService) DeleteBudget(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// Goals

func (s *PlanningService) buildGoal(userID uuid.UUID, in GoalInput) (core.Goal, error) {
	target, err := parseNumber(in.Target)
	if err != nil {
		return core.Goal{}, err
	}
	current, err := parseNumber(in.Current)
	if err != nil {
		return core.Goal{}, err
	}
	deadline, err := parseDate(in.Deadline)
	if err != nil {
		return core.Goal{}, err
	}
	g, err := core.NewGoal(userID, in.Name, target, current, deadline)
	if err != nil {
		return core.Goal{}, fromDomain(err)
	}
	return g, nil
}

func (s *PlanningService) CreateGoal(ctx context.Context, userID uuid.UUID, in GoalInput) (core.GoalEvaluation, error) {
	g, err := s.buildGoal(userID, in)
	if err != nil {
		return core.GoalEvaluation{}, err
	}
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.GoalEvaluation{}, fmt.Errorf("create goal: %w", err)
	}
	return core.EvaluateGoal(created, s.now()), nil
}

func (s *PlanningService) UpdateGoal(ctx context.Context, userID uuid.UUID, id int64, in GoalInput) (core.GoalEvaluation, error) {
	g, err := s.buildGoal(userID, in)
	if err != nil {
		return core.GoalEvaluation{}, err
	}
	g.ID = id
	updated, err := s.store.UpdateGoal(ctx, g)
	if err != nil {
		return core.GoalEvaluation{}, fmt.Errorf("update goal: %w", err)
	}
	return core.EvaluateGoal(updated, s.now()), nil
}

func (s *PlanningService) DeleteGoal(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.store.DeleteGoal(ctx, userID, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *PlanningService) ListGoals(ctx context.Context, userID uuid.UUID) ([]core.GoalEvaluation, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return core.EvaluateGoals(goals, s.now()), nil
}
