package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"auditgate/internal/platform/config"
	"auditgate/internal/platform/httpserver"
	"auditgate/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server, app.router)

	g, gctx := errgroup.WithContext(ctx)
	// The attempt worker outlives the request context so it can drain after
	// the server stops accepting traffic.
	g.Go(func() error {
		return app.attempts.Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		log.Info("starting auditgate",
			"addr", cfg.Server.Addr,
			"store_driver", cfg.Store.Driver,
			"lead_sink", cfg.Attempts.LeadSink,
			"tokens_enabled", app.signer != nil,
			"admin_override", cfg.Admission.AdminOverrideEnabled(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		if err := app.attempts.Close(shutdownCtx); err != nil {
			log.Error("attempt log not drained", "error", err)
		}
		return nil
	})

	return g.Wait()
}
