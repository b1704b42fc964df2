// Package sheets mirrors ledger transactions into a spreadsheet.
package sheets

import (
	"context"

	"financas/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row is one mirrored transaction with names already resolved.
type Row struct {
	ID          int64
	UserID      uuid.UUID
	Date        core.Date
	Description string
	Type        core.TransactionType
	Category    string
	Account     string
	Amount      decimal.Decimal
}

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, r Row) (rowRef string, err error)
	}

	// TransactionDeleter removes a mirrored row. date selects the yearly
	// sheet; a missing row is not an error.
	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id int64, date core.Date) error
	}

	Mirror interface {
		TransactionWriter
		TransactionDeleter
	}
)
