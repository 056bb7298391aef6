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

	"github.com/gamecraft/economy/internal/api"
	"github.com/gamecraft/economy/internal/infra/logging"
	"github.com/gamecraft/economy/internal/infra/pgutils"
	pgcurrencies "github.com/gamecraft/economy/internal/repos/currencies/postgres"
	pgjobs "github.com/gamecraft/economy/internal/repos/jobs/postgres"
	"github.com/gamecraft/economy/internal/services/accounts"
	"github.com/gamecraft/economy/internal/services/ledger"
	"github.com/gamecraft/economy/internal/services/progression"
	"github.com/gamecraft/economy/internal/services/registry"
	"github.com/gamecraft/economy/internal/services/rewards"
	"github.com/gamecraft/economy/pkg/envconf"
	"github.com/gamecraft/economy/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return db.Close()
	})

	// --- Static catalogs, loaded once ---
	curReg, err := registry.LoadCurrencies(ctx, pgcurrencies.New(db))
	if err != nil {
		return fmt.Errorf("load currency registry: %w", err)
	}

	_, err = curReg.Default()
	if err != nil {
		return fmt.Errorf("currency registry has no default: %w", err)
	}

	jobReg, err := registry.LoadJobs(ctx, pgjobs.New(db))
	if err != nil {
		return fmt.Errorf("load job catalog: %w", err)
	}

	// --- Services ---
	accountSrv := accounts.New(db, curReg, jobReg)
	ledgerSrv := ledger.New(db, curReg)
	progressionSrv := progression.New(db, jobReg)
	rewardSrv := rewards.New(ledgerSrv, progressionSrv, curReg, jobReg)

	// --- HTTP server ---
	handler := api.NewHandler(accountSrv, ledgerSrv, progressionSrv, rewardSrv, curReg)
	srv := api.NewServer(cfg.Port, handler)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
