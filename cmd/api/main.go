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

	"github.com/MrJamesThe3rd/billed/internal/bill"
	billStore "github.com/MrJamesThe3rd/billed/internal/bill/store"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/database"
	"github.com/MrJamesThe3rd/billed/internal/export"
	billedHttp "github.com/MrJamesThe3rd/billed/internal/http"
	authHandler "github.com/MrJamesThe3rd/billed/internal/http/auth"
	billHandler "github.com/MrJamesThe3rd/billed/internal/http/bill"
	exportHandler "github.com/MrJamesThe3rd/billed/internal/http/export"
	proofHandler "github.com/MrJamesThe3rd/billed/internal/http/proof"
	"github.com/MrJamesThe3rd/billed/internal/proof"
	"github.com/MrJamesThe3rd/billed/internal/user"
	userStore "github.com/MrJamesThe3rd/billed/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetLogLoggerLevel(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	var (
		tokens      = user.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		bills       = billStore.New(db)
		userService = user.NewService(userStore.New(db), tokens)
		billService = bill.NewService(bills)
		proofs      = proof.NewStorage(cfg.Storage.Dir, cfg.Storage.PublicURL)
	)

	var (
		authH   = authHandler.NewHandler(userService)
		billH   = billHandler.NewHandler(billService, proofs)
		exportH = exportHandler.NewHandler(export.NewService(bills, proofs))
		proofH  = proofHandler.NewHandler(proofs)
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           billedHttp.New(authH, billH, exportH, proofH, tokens, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
