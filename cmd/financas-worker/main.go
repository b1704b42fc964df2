package main

import (
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/backend"
	"financas/internal/cli"
	applog "financas/internal/log"
	"financas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory, bcfg, res := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return
	}
	defer client.Close()

	refresher := worker.NewBudgetRefresher(res.Store, logger)
	handlers := []amqp.Handler{refresher.HandleLedgerEvent}

	mirror, err := factory.CreateMirror(ctx, bcfg)
	switch {
	case err == nil:
		handlers = append(handlers, worker.NewSheetsMirror(res.Store, mirror, logger).HandleLedgerEvent)
		logger.Info("Sheets mirror enabled", "sheet", bcfg.GoogleSheetName)
	case errors.Is(err, backend.ErrMirrorDisabled):
	default:
		logger.Error("Sheets mirror disabled", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, worker.Chain(handlers...))
	})
	g.Go(func() error {
		return refresher.RunReconcile(gctx, cfg.RefreshInterval)
	})

	logger.Info("Starting financas worker",
		"queue", cfg.AMQPQueue,
		"reconcile_interval", cfg.RefreshInterval,
		applog.FieldBackend, cfg.DataBackend)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Worker stopped", "error", err)
		return
	}
	logger.Info("Worker stopped gracefully")
}
