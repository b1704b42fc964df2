package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/export"
	applog "financas/internal/log"
	"financas/internal/store"

	"github.com/google/uuid"
)

type ReportStore interface {
	store.Transactions
	store.Categories
	store.Accounts
}

// ReportService composes dashboards and period reports. Results are cached
// per user, period and period start, and dropped on every ledger write.
type ReportService struct {
	store      ReportStore
	reports    cache.Cache[core.PeriodReport]
	dashboards cache.Cache[core.Dashboard]
	now        func() time.Time
	logger     *applog.Logger
}

// NewReportService takes the two caches so callers can register them with a
// cache.Janitor. Nil caches disable caching.
func NewReportService(st ReportStore, reports cache.Cache[core.PeriodReport], dashboards cache.Cache[core.Dashboard], logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ReportService{
		store:      st,
		reports:    reports,
		dashboards: dashboards,
		now:        time.Now,
		logger:     logger.WithComponent(applog.ComponentReport),
	}
}

func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func reportKey(userID uuid.UUID, period core.Period, start string) string {
	return fmt.Sprintf("%s|%s|%s", userID, period, start)
}

// Invalidate drops every cached report of userID.
func (s *ReportService) Invalidate(userID uuid.UUID) {
	prefix := userID.String() + "|"
	n := 0
	if s.reports != nil {
		n += s.reports.DeletePrefix(prefix)
	}
	if s.dashboards != nil {
		n += s.dashboards.DeletePrefix(prefix)
	}
	if n > 0 {
		s.logger.Debug("Report cache invalidated", applog.FieldUserID, userID.String(), "entries", n)
	}
}

type ledgerSnapshot struct {
	transactions []core.Transaction
	accounts     []core.Account
	categories   []core.Category
}

func (s *ReportService) load(ctx context.Context, userID uuid.UUID, f store.TransactionFilter) (ledgerSnapshot, error) {
	var snap ledgerSnapshot
	var err error
	if snap.transactions, err = s.store.ListTransactions(ctx, userID, f); err != nil {
		return snap, fmt.Errorf("list transactions: %w", err)
	}
	if snap.accounts, err = s.store.ListAccounts(ctx, userID); err != nil {
		return snap, fmt.Errorf("list accounts: %w", err)
	}
	if snap.categories, err = s.store.ListCategories(ctx, userID, ""); err != nil {
		return snap, fmt.Errorf("list categories: %w", err)
	}
	return snap, nil
}

// Dashboard returns the overview of the current month.
func (s *ReportService) Dashboard(ctx context.Context, userID uuid.UUID) (core.Dashboard, error) {
	now := s.now()
	key := reportKey(userID, "dashboard", core.DateOf(now).MonthKey())
	if s.dashboards != nil {
		if d, ok := s.dashboards.Get(key); ok {
			return d, nil
		}
	}

	snap, err := s.load(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return core.Dashboard{}, err
	}
	d := core.ComposeDashboard(snap.transactions, snap.accounts, snap.categories, now)
	if s.dashboards != nil {
		s.dashboards.Set(key, d)
	}
	return d, nil
}

// Report returns the report of a named period. Unknown names report on the
// whole ledger.
func (s *ReportService) Report(ctx context.Context, userID uuid.UUID, periodName string) (core.PeriodReport, error) {
	now := s.now()
	period := core.ParsePeriod(periodName)
	start, _ := period.Start(now)
	key := reportKey(userID, period, start.String())
	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r, nil
		}
	}

	snap, err := s.load(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return core.PeriodReport{}, err
	}
	r := core.ComposePeriodReport(snap.transactions, snap.accounts, snap.categories, period, now)
	if s.reports != nil {
		s.reports.Set(key, r)
	}

	s.logger.DebugContext(ctx, "Period report composed",
		applog.FieldUserID, userID.String(),
		applog.FieldPeriod, string(period),
		"transactions", r.TransactionCount)
	return r, nil
}

// ExportData gathers a period report with its transactions resolved to
// category and account names. Exports always read fresh data.
func (s *ReportService) ExportData(ctx context.Context, userID uuid.UUID, periodName string) (export.Data, error) {
	now := s.now()
	period := core.ParsePeriod(periodName)

	snap, err := s.load(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return export.Data{}, err
	}
	report := core.ComposePeriodReport(snap.transactions, snap.accounts, snap.categories, period, now)
	filtered := core.FilterByPeriod(snap.transactions, period, now)

	categories := core.NewCategoryLookup(snap.categories)
	accounts := make(map[int64]string, len(snap.accounts))
	for _, a := range snap.accounts {
		accounts[a.ID] = a.Name
	}

	rows := make([]export.Row, 0, len(filtered))
	for _, t := range core.RecentTransactions(filtered, len(filtered)) {
		rows = append(rows, export.Row{
			Date:        t.Date,
			Description: t.Description,
			Type:        t.Type,
			Category:    categories.Name(t.CategoryID),
			Account:     accounts[t.AccountID],
			Amount:      t.Amount,
		})
	}
	return export.Data{Report: report, Rows: rows}, nil
}
