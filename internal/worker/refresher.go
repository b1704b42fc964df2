// Package worker reacts to ledger events: it keeps budget spent amounts in
// step with the ledger and mirrors transactions to a spreadsheet.
package worker

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

type RefresherStore interface {
	store.Transactions
	store.Budgets
}

// BudgetRefresher recomputes budget spent amounts from the ledger. Every
// refresh reads the current state, so replaying an event is harmless.
type BudgetRefresher struct {
	store  RefresherStore
	logger *applog.Logger
}

func NewBudgetRefresher(st RefresherStore, logger *applog.Logger) *BudgetRefresher {
	if logger == nil {
		logger = applog.Discard()
	}
	return &BudgetRefresher{store: st, logger: logger.WithComponent(applog.ComponentWorker)}
}

// HandleLedgerEvent refreshes every budget key the event names.
func (r *BudgetRefresher) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	r.logger.InfoContext(ctx, "Processing ledger event",
		applog.FieldEventKind, ev.Kind,
		applog.FieldTxID, ev.TransactionID,
		applog.FieldUserID, ev.UserID.String())
	return r.Refresh(ctx, ev.UserID, ev.Affected...)
}

// Refresh sets spent for each key to the sum of that category's expenses
// in the key's month. Keys without a budget are skipped by the store.
func (r *BudgetRefresher) Refresh(ctx context.Context, userID uuid.UUID, keys ...amqp.BudgetKey) error {
	for _, k := range keys {
		if k.CategoryID <= 0 || k.Month.IsZero() {
			continue
		}
		month := k.Month.StartOfMonth()
		txns, err := r.store.ListTransactions(ctx, userID, store.TransactionFilter{
			From:       month,
			To:         core.DateOf(month.AddDate(0, 1, -1)),
			Type:       core.Expense,
			CategoryID: k.CategoryID,
		})
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		spent := core.SpentInMonth(txns, k.CategoryID, month)
		if err := r.store.SetBudgetSpent(ctx, userID, k.CategoryID, month, spent); err != nil {
			return fmt.Errorf("set budget spent: %w", err)
		}
		r.logger.DebugContext(ctx, "Budget spent refreshed",
			applog.FieldUserID, userID.String(),
			applog.FieldCategoryID, k.CategoryID,
			applog.FieldMonth, month.MonthKey(),
			applog.FieldAmount, spent.StringFixed(2))
	}
	return nil
}

// Reconcile recomputes every budget of every user. It backs up the event
// path in case a publish failed or a message was dropped.
func (r *BudgetRefresher) Reconcile(ctx context.Context) error {
	owners, err := r.store.BudgetOwners(ctx)
	if err != nil {
		return fmt.Errorf("list budget owners: %w", err)
	}
	total := 0
	for _, userID := range owners {
		budgets, err := r.store.ListBudgets(ctx, userID, core.Date{})
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		keys := make([]amqp.BudgetKey, 0, len(budgets))
		for _, b := range budgets {
			keys = append(keys, amqp.BudgetKey{CategoryID: b.CategoryID, Month: b.Month})
		}
		if err := r.Refresh(ctx, userID, keys...); err != nil {
			return err
		}
		total += len(keys)
	}
	r.logger.InfoContext(ctx, "Budget reconcile completed",
		"users", len(owners),
		applog.FieldBudgetCount, total)
	return nil
}

// RunReconcile reconciles once at start and then every interval until ctx
// is cancelled. Failures are logged and retried on the next tick.
func (r *BudgetRefresher) RunReconcile(ctx context.Context, interval time.Duration) error {
	run := func() {
		if err := r.Reconcile(ctx); err != nil && ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "Budget reconcile failed", "error", err)
		}
	}
	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			run()
		}
	}
}
