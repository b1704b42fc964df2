package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"financas/internal/amqp"
	"financas/internal/cache"
	"financas/internal/cli"
	"financas/internal/core"
	apphttp "financas/internal/http"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/session"
	"financas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory, bcfg, res := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()
	st := res.Store

	reportCache := cache.NewLRUCache[core.PeriodReport](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	dashboardCache := cache.NewLRUCache[core.Dashboard](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	go cache.NewJanitor(logger, reportCache, dashboardCache).Run(ctx, 10*time.Minute)

	reports := services.NewReportService(st, reportCache, dashboardCache, logger)
	refresher := worker.NewBudgetRefresher(st, logger)

	// With a broker the worker process owns budget refreshes and the sheets
	// mirror; without one both run inline after each write.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			return
		}
		defer client.Close()
		publisher = client
		logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		handlers := []amqp.Handler{refresher.HandleLedgerEvent}
		if bcfg.MirrorEnabled() {
			mirror, err := factory.CreateMirror(ctx, bcfg)
			if err != nil {
				logger.Error("Sheets mirror disabled", "error", err)
			} else {
				handlers = append(handlers, worker.NewSheetsMirror(st, mirror, logger).HandleLedgerEvent)
			}
		}
		publisher = worker.NewInlinePublisher(worker.Chain(handlers...))
		go func() {
			if err := refresher.RunReconcile(ctx, cfg.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Budget reconcile stopped", "error", err)
			}
		}()
		logger.Info("No AMQP_URL set, handling ledger events inline")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      net.JoinHostPort("", cfg.Port),
		Verifier:  session.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Ready:     st.Ping,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	}, apphttp.Services{
		Ledger:   services.NewLedgerService(st, publisher, reports, logger),
		Planning: services.NewPlanningService(st, refresher, logger),
		Reports:  reports,
		Profiles: services.NewProfileService(st),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting financas server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
