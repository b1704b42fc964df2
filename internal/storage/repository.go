// Package storage implements store.Store on database/sql for SQLite
// (modernc.org/sqlite) and Postgres (lib/pq).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/store"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	return string(d)
}

type Repository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
	logger  *applog.Logger
}

var _ store.Store = (*Repository)(nil)

// Open connects, migrates and returns a ready repository. For SQLite the
// dsn is a file path and its directory is created when missing.
func Open(ctx context.Context, dialect Dialect, dsn string, logger *applog.Logger) (*Repository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	if dialect == DialectSQLite {
		path, _, _ := strings.Cut(dsn, "?")
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer at a time keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		logger:  logger.WithComponent(applog.ComponentStorage),
	}, nil
}

// WithClock sets the time source for created_at and updated_at.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (r *Repository) rebind(q string) string {
	if r.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *Repository) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.rebind(q), args...)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.rebind(q), args...)
}

func (r *Repository) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.rebind(q), args...)
}

// stampNow returns the current time at the precision both backends keep.
func (r *Repository) stampNow() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// deleteOwned removes one user-owned row and maps a miss to ErrNotFound.
func (r *Repository) deleteOwned(ctx context.Context, table string, userID uuid.UUID, id int64) error {
	res, err := r.exec(ctx, "DELETE FROM "+table+" WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// Transactions

const transactionColumns = "id, user_id, type, amount, date, description, category_id, account_id, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ string
	err := s.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Date, &t.Description, &t.CategoryID, &t.AccountID, timestamp{&t.CreatedAt})
	t.Type = core.TransactionType(typ)
	return t, err
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.CreatedAt = r.stampNow()
	err := r.queryRow(ctx, `INSERT INTO transactions (user_id, type, amount, date, description, category_id, account_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		t.UserID, string(t.Type), t.Amount, t.Date, t.Description, t.CategoryID, t.AccountID, stamp(t.CreatedAt),
	).Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	r.logger.DebugContext(ctx, "transaction stored", applog.FieldTxID, t.ID, applog.FieldUserID, t.UserID.String())
	return t, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	err := r.queryRow(ctx, `UPDATE transactions
		SET type = ?, amount = ?, date = ?, description = ?, category_id = ?, account_id = ?
		WHERE id = ? AND user_id = ? RETURNING created_at`,
		string(t.Type), t.Amount, t.Date, t.Description, t.CategoryID, t.AccountID, t.ID, t.UserID,
	).Scan(timestamp{&t.CreatedAt})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", t.ID, notFound(err))
	}
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, userID uuid.UUID, id int64) (core.Transaction, error) {
	t, err := scanTransaction(r.queryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?", id, userID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, notFound(err))
	}
	return t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int64) error {
	return r.deleteOwned(ctx, "transactions", userID, id)
}

func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID, f store.TransactionFilter) ([]core.Transaction, error) {
	q := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = ?"
	args := []any{userID}
	if !f.From.IsZero() {
		q += " AND date >= ?"
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		q += " AND date <= ?"
		args = append(args, f.To)
	}
	if f.Type != "" {
		q += " AND type = ?"
		args = append(args, string(f.Type))
	}
	if f.CategoryID != 0 {
		q += " AND category_id = ?"
		args = append(args, f.CategoryID)
	}
	if f.AccountID != 0 {
		q += " AND account_id = ?"
		args = append(args, f.AccountID)
	}
	q += " ORDER BY date DESC, created_at DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT " + strconv.Itoa(f.Limit)
	}

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Categories

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = r.stampNow()
	err := r.queryRow(ctx, "INSERT INTO categories (user_id, name, type, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		c.UserID, c.Name, string(c.Type), stamp(c.CreatedAt)).Scan(&c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, userID uuid.UUID, id int64) error {
	return r.deleteOwned(ctx, "categories", userID, id)
}

func (r *Repository) ListCategories(ctx context.Context, userID uuid.UUID, typ core.TransactionType) ([]core.Category, error) {
	q := "SELECT id, user_id, name, type, created_at FROM categories WHERE user_id = ?"
	args := []any{userID}
	if typ != "" {
		q += " AND type = ?"
		args = append(args, string(typ))
	}
	q += " ORDER BY lower(name), id"

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var c core.Category
		var t string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &t, timestamp{&c.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(t)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Accounts

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.CreatedAt = r.stampNow()
	err := r.queryRow(ctx, "INSERT INTO accounts (user_id, name, type, balance, icon, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id",
		a.UserID, a.Name, string(a.Type), a.Balance, a.Icon, stamp(a.CreatedAt)).Scan(&a.ID)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	err := r.queryRow(ctx, `UPDATE accounts SET name = ?, type = ?, balance = ?, icon = ?
		WHERE id = ? AND user_id = ? RETURNING created_at`,
		a.Name, string(a.Type), a.Balance, a.Icon, a.ID, a.UserID).Scan(timestamp{&a.CreatedAt})
	if err != nil {
		return core.Account{}, fmt.Errorf("update account %d: %w", a.ID, notFound(err))
	}
	return a, nil
}

func (r *Repository) DeleteAccount(ctx context.Context, userID uuid.UUID, id int64) error {
	return r.deleteOwned(ctx, "accounts", userID, id)
}

func (r *Repository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]core.Account, error) {
	rows, err := r.query(ctx, `SELECT id, user_id, name, type, balance, icon, created_at
		FROM accounts WHERE user_id = ? ORDER BY lower(name), id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	out := []core.Account{}
	for rows.Next() {
		var a core.Account
		var t string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &t, &a.Balance, &a.Icon, timestamp{&a.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(t)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Budgets

func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	err := r.queryRow(ctx, `INSERT INTO budgets (user_id, category_id, month, limit_amount, spent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category_id, month) DO UPDATE SET limit_amount = excluded.limit_amount
		RETURNING id, spent, created_at`,
		b.UserID, b.CategoryID, b.Month, b.LimitAmount, b.Spent, stamp(r.stampNow()),
	).Scan(&b.ID, &b.Spent, timestamp{&b.CreatedAt})
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return b, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, userID uuid.UUID, id int64) error {
	return r.deleteOwned(ctx, "budgets", userID, id)
}

func (r *Repository) ListBudgets(ctx context.Context, userID uuid.UUID, month core.Date) ([]core.Budget, error) {
	q := "SELECT id, user_id, category_id, month, limit_amount, spent, created_at FROM budgets WHERE user_id = ?"
	args := []any{userID}
	if !month.IsZero() {
		q += " AND month = ?"
		args = append(args, month.StartOfMonth())
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.LimitAmount, &b.Spent, timestamp{&b.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) SetBudgetSpent(ctx context.Context, userID uuid.UUID, categoryID int64, month core.Date, spent decimal.Decimal) error {
	_, err := r.exec(ctx, "UPDATE budgets SET spent = ? WHERE user_id = ? AND category_id = ? AND month = ?",
		spent, userID, categoryID, month.StartOfMonth())
	if err != nil {
		return fmt.Errorf("set budget spent: %w", err)
	}
	return nil
}

func (r *Repository) BudgetOwners(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.query(ctx, "SELECT DISTINCT user_id FROM budgets ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list budget owners: %w", err)
	}
	defer rows.Close()

	out := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan budget owner: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Goals

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.CreatedAt = r.stampNow()
	err := r.queryRow(ctx, `INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, stamp(g.CreatedAt)).Scan(&g.ID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	err := r.queryRow(ctx, `UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ?
		WHERE id = ? AND user_id = ? RETURNING created_at`,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.ID, g.UserID).Scan(timestamp{&g.CreatedAt})
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal %d: %w", g.ID, notFound(err))
	}
	return g, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, userID uuid.UUID, id int64) error {
	return r.deleteOwned(ctx, "goals", userID, id)
}

func (r *Repository) ListGoals(ctx context.Context, userID uuid.UUID) ([]core.Goal, error) {
	rows, err := r.query(ctx, `SELECT id, user_id, name, target_amount, current_amount, deadline, created_at
		FROM goals WHERE user_id = ? ORDER BY deadline ASC, created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []core.Goal{}
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, timestamp{&g.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Profiles

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (core.Profile, error) {
	var p core.Profile
	err := r.queryRow(ctx, "SELECT id, name, email, created_at, updated_at FROM profiles WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Email, timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt})
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", notFound(err))
	}
	return p, nil
}

func (r *Repository) UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}
	now := r.stampNow()
	p.UpdatedAt = now
	err := r.queryRow(ctx, `INSERT INTO profiles (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email, updated_at = excluded.updated_at
		RETURNING created_at`,
		p.ID, p.Name, p.Email, stamp(now), stamp(now)).Scan(timestamp{&p.CreatedAt})
	if err != nil {
		return core.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
