package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/salesboard/internal/config"
	"github.com/MrJamesThe3rd/salesboard/internal/database"
	"github.com/MrJamesThe3rd/salesboard/internal/export"
	salesHttp "github.com/MrJamesThe3rd/salesboard/internal/http"
	exportHandler "github.com/MrJamesThe3rd/salesboard/internal/http/export"
	seedHandler "github.com/MrJamesThe3rd/salesboard/internal/http/seed"
	txHandler "github.com/MrJamesThe3rd/salesboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/salesboard/internal/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
	txStore "github.com/MrJamesThe3rd/salesboard/internal/transaction/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})).
		With("app", cfg.App.Name))

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		transactionService = transaction.NewService(txStore.New(db))
		exportService      = export.NewService(transactionService)
		seedLoader         = seed.NewLoader(cfg.Seed.URL, cfg.Seed.Timeout, transactionService)
	)

	if cfg.Seed.OnStart {
		seedOnStart(ctx, seedLoader, transactionService, cfg.Seed.Timeout)
	}

	var (
		transactionH = txHandler.NewHandler(transactionService)
		exportH      = exportHandler.NewHandler(exportService)
		seedH        *seedHandler.Handler
	)

	if cfg.Seed.AllowReload {
		seedH = seedHandler.NewHandler(seedLoader)
	}

	router := salesHttp.New(cfg.Server.AllowedOrigins, transactionH, exportH, seedH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// countTimeout bounds the record count logged after seeding.
const countTimeout = 5 * time.Second

// seedOnStart replaces the stored data with the upstream document. A failure
// leaves the previous data in place and the server keeps starting.
func seedOnStart(ctx context.Context, loader *seed.Loader, txSvc *transaction.Service, timeout time.Duration) {
	seedCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := loader.Load(seedCtx); err != nil {
		slog.Warn("failed to seed database", "error", err)
	}

	countCtx, cancelCount := context.WithTimeout(ctx, countTimeout)
	defer cancelCount()

	count, err := txSvc.Count(countCtx)
	if err != nil {
		slog.Warn("failed to count transactions", "error", err)
		return
	}

	slog.Info("transactions available", "count", count)
}
