package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/session"
)

// Services are the application services the handlers call.
type Services struct {
	Ledger   *services.LedgerService
	Planning *services.PlanningService
	Reports  *services.ReportService
	Profiles *services.ProfileService
}

// Options configures the server.
type Options struct {
	Addr     string
	Verifier *session.Verifier
	// Ready reports whether dependencies are reachable; nil means always ready.
	Ready func(ctx context.Context) error
	// RateLimit is the number of writes allowed per client per minute.
	RateLimit int
	Logger    *applog.Logger
}

type Server struct {
	http.Server
	svc         Services
	verifier    *session.Verifier
	ready       func(ctx context.Context) error
	logger      *applog.Logger
	rateLimiter *rateLimiter
	security    securityMetrics
	startedAt   time.Time

	requestsTotal       int64
	transactionsCreated int64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, svc Services) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	s := &Server{
		svc:         svc,
		verifier:    opts.Verifier,
		ready:       opts.Ready,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(opts.RateLimit),
		startedAt:   time.Now(),
	}

	api := http.NewServeMux()
	api.Handle("/api/transactions", methods{
		http.MethodGet:  s.handleListTransactions,
		http.MethodPost: s.handleCreateTransaction,
	})
	api.Handle("/api/transactions/{id}", methods{
		http.MethodGet:    s.handleGetTransaction,
		http.MethodPut:    s.handleUpdateTransaction,
		http.MethodDelete: s.handleDeleteTransaction,
	})
	api.Handle("/api/categories", methods{
		http.MethodGet:  s.handleListCategories,
		http.MethodPost: s.handleCreateCategory,
	})
	api.Handle("/api/categories/{id}", methods{
		http.MethodDelete: s.handleDeleteCategory,
	})
	api.Handle("/api/accounts", methods{
		http.MethodGet:  s.handleListAccounts,
		http.MethodPost: s.handleCreateAccount,
	})
	api.Handle("/api/accounts/{id}", methods{
		http.MethodPut:    s.handleUpdateAccount,
		http.MethodDelete: s.handleDeleteAccount,
	})
	api.Handle("/api/budgets", methods{
		http.MethodGet: s.handleListBudgets,
		http.MethodPut: s.handleUpsertBudget,
	})
	api.Handle("/api/budgets/{id}", methods{
		http.MethodDelete: s.handleDeleteBudget,
	})
	api.Handle("/api/goals", methods{
		http.MethodGet:  s.handleListGoals,
		http.MethodPost: s.handleCreateGoal,
	})
	api.Handle("/api/goals/{id}", methods{
		http.MethodPut:    s.handleUpdateGoal,
		http.MethodDelete: s.handleDeleteGoal,
	})
	api.Handle("/api/dashboard", methods{http.MethodGet: s.handleDashboard})
	api.Handle("/api/reports", methods{http.MethodGet: s.handleReport})
	api.Handle("/api/reports/export", methods{http.MethodGet: s.handleExport})
	api.Handle("/api/profile", methods{
		http.MethodGet: s.handleGetProfile,
		http.MethodPut: s.handleUpdateProfile,
	})
	api.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Rota não encontrada").Write(w)
	})

	root := http.NewServeMux()
	root.Handle("/healthz", methods{http.MethodGet: s.handleHealth})
	root.Handle("/readyz", methods{http.MethodGet: s.handleReady})
	root.Handle("/metrics", methods{http.MethodGet: s.handleMetrics})
	root.Handle("/api/", s.withAuth(api))

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.withRequestLog(s.withSecurity(root)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
