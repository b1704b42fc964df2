package services

import (
	"context"
	"fmt"

	"financas/internal/amqp"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/store"

	"github.com/google/uuid"
)

// Publisher delivers ledger events. The AMQP client and the worker's inline
// publisher both satisfy it.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// Invalidator drops cached derived data for a user.
type Invalidator interface {
	Invalidate(userID uuid.UUID)
}

type LedgerStore interface {
	store.Transactions
	store.Categories
	store.Accounts
}

// TransactionInput is raw user input; amounts and dates are still text.
type TransactionInput struct {
	Type        string
	Amount      string
	Date        string
	Description string
	CategoryID  int64
	AccountID   int64
}

type AccountInput struct {
	Name    string
	Type    string
	Balance string
	Icon    string
}

// LedgerService handles transactions, categories and accounts. Writes are
// saved first; the ledger event afterwards is best effort.
type LedgerService struct {
	store     LedgerStore
	publisher Publisher
	reports   Invalidator
	logger    *applog.Logger
}

func NewLedgerService(st LedgerStore, publisher Publisher, reports Invalidator, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &LedgerService{
		store:     st,
		publisher: publisher,
		reports:   reports,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

func (s *LedgerService) buildTransaction(userID uuid.UUID, in TransactionInput) (core.Transaction, error) {
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := core.NewTransaction(userID, core.TransactionType(in.Type), amount, date, in.Description, in.CategoryID, in.AccountID)
	return t, fromDomain(err)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, userID uuid.UUID, in TransactionInput) (core.Transaction, error) {
	t, err := s.buildTransaction(userID, in)
	if err != nil {
		return core.Transaction{}, err
	}
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithUser(userID.String()).
		WithTransaction(created.ID, string(created.Type), created.Amount.StringFixed(2), created.CategoryID).
		ToSlice()...)

	s.changed(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, userID, created.ID, amqp.KeyOf(created)))
	return created, nil
}

// UpdateTransaction replaces every editable field. Both the old and the new
// budget keys are refreshed.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID uuid.UUID, id int64, in TransactionInput) (core.Transaction, error) {
	t, err := s.buildTransaction(userID, in)
	if err != nil {
		return core.Transaction{}, err
	}
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.ID = id
	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.changed(ctx, amqp.NewLedgerEvent(amqp.TransactionUpdated, userID, id, amqp.KeyOf(old), amqp.KeyOf(updated)))
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int64) error {
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.changed(ctx, amqp.NewLedgerEvent(amqp.TransactionDeleted, userID, id, amqp.KeyOf(old)))
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID uuid.UUID, id int64) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, f store.TransactionFilter) ([]core.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalid("Tipo inválido")
	}
	out, err := s.store.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// changed publishes ev and drops cached reports. Publish failures are logged;
// the periodic reconcile repairs budgets the event would have refreshed.
func (s *LedgerService) changed(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.reports != nil {
		s.reports.Invalidate(ev.UserID)
	}
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher configured, skipping ledger event", applog.FieldEventKind, ev.Kind)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			applog.FieldEventKind, ev.Kind,
			applog.FieldTxID, ev.TransactionID)
	}
}

// Categories

func (s *LedgerService) CreateCategory(ctx context.Context, userID uuid.UUID, name, typ string) (core.Category, error) {
	c, err := core.NewCategory(userID, name, core.TransactionType(typ))
	if err != nil {
		return core.Category{}, fromDomain(err)
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// ListCategories lists categories of one type, or all when typ is empty.
func (s *LedgerService) ListCategories(ctx context.Context, userID uuid.UUID, typ string) ([]core.Category, error) {
	t := core.TransactionType(typ)
	if t != "" && !t.Valid() {
		return nil, invalid("Tipo inválido")
	}
	out, err := s.store.ListCategories(ctx, userID, t)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Accounts

func (s *LedgerService) buildAccount(userID uuid.UUID, in AccountInput) (core.Account, error) {
	balance, err := parseNumber(in.Balance)
	if err != nil {
		return core.Account{}, err
	}
	a, err := core.NewAccount(userID, in.Name, core.AccountType(in.Type), balance, in.Icon)
	return a, fromDomain(err)
}

func (s *LedgerService) CreateAccount(ctx context.Context, userID uuid.UUID, in AccountInput) (core.Account, error) {
	a, err := s.buildAccount(userID, in)
	if err != nil {
		return core.Account{}, err
	}
	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.invalidate(userID)
	return created, nil
}

// UpdateAccount is the only way an account balance changes.
func (s *LedgerService) UpdateAccount(ctx context.Context, userID uuid.UUID, id int64, in AccountInput) (core.Account, error) {
	a, err := s.buildAccount(userID, in)
	if err != nil {
		return core.Account{}, err
	}
	a.ID = id
	updated, err := s.store.UpdateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}
	s.invalidate(userID)
	return updated, nil
}

func (s *LedgerService) DeleteAccount(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.store.DeleteAccount(ctx, userID, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.invalidate(userID)
	return nil
}

func (s *LedgerService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]core.Account, error) {
	out, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (s *LedgerService) invalidate(userID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(userID)
	}
}
