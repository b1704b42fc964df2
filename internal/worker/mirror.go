package worker

import (
	"context"
	"errors"
	"fmt"

	"financas/internal/amqp"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/sheets"
	"financas/internal/store"
)

type MirrorStore interface {
	store.Transactions
	store.Categories
	store.Accounts
}

// SheetsMirror copies transactions into a spreadsheet. Updates are written
// as delete plus append so the row always matches the ledger.
type SheetsMirror struct {
	store  MirrorStore
	sheet  sheets.Mirror
	logger *applog.Logger
}

func NewSheetsMirror(st MirrorStore, sheet sheets.Mirror, logger *applog.Logger) *SheetsMirror {
	if logger == nil {
		logger = applog.Discard()
	}
	return &SheetsMirror{store: st, sheet: sheet, logger: logger.WithComponent(applog.ComponentSheets)}
}

// HandleLedgerEvent never asks for a redelivery: a retried append would
// duplicate rows, so failures are logged instead.
func (m *SheetsMirror) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	if err := m.mirror(ctx, ev); err != nil {
		m.logger.ErrorContext(ctx, "Failed to mirror transaction",
			"error", err,
			applog.FieldEventKind, ev.Kind,
			applog.FieldTxID, ev.TransactionID)
	}
	return nil
}

func (m *SheetsMirror) mirror(ctx context.Context, ev *amqp.LedgerEvent) error {
	if ev.Kind == amqp.TransactionDeleted || ev.Kind == amqp.TransactionUpdated {
		// The first key is the one the transaction had before the change.
		var date core.Date
		if len(ev.Affected) > 0 {
			date = ev.Affected[0].Month
		}
		if err := m.sheet.DeleteTransaction(ctx, ev.TransactionID, date); err != nil {
			return fmt.Errorf("delete mirrored row: %w", err)
		}
		if ev.Kind == amqp.TransactionDeleted {
			return nil
		}
	}

	t, err := m.store.GetTransaction(ctx, ev.UserID, ev.TransactionID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted before we got to it.
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	row, err := m.row(ctx, t)
	if err != nil {
		return err
	}
	if _, err := m.sheet.AppendTransaction(ctx, row); err != nil {
		return fmt.Errorf("append mirrored row: %w", err)
	}
	return nil
}

func (m *SheetsMirror) row(ctx context.Context, t core.Transaction) (sheets.Row, error) {
	cats, err := m.store.ListCategories(ctx, t.UserID, "")
	if err != nil {
		return sheets.Row{}, fmt.Errorf("list categories: %w", err)
	}
	accounts, err := m.store.ListAccounts(ctx, t.UserID)
	if err != nil {
		return sheets.Row{}, fmt.Errorf("list accounts: %w", err)
	}
	account := ""
	for _, a := range accounts {
		if a.ID == t.AccountID {
			account = a.Name
			break
		}
	}
	return sheets.Row{
		ID:          t.ID,
		UserID:      t.UserID,
		Date:        t.Date,
		Description: t.Description,
		Type:        t.Type,
		Category:    core.NewCategoryLookup(cats).Name(t.CategoryID),
		Account:     account,
		Amount:      t.Amount,
	}, nil
}
