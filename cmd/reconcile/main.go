// Package main is the entry point for the balance reconciliation worker. It
// replays the ledger of every tenant and logs counterparties whose cached
// balance drifted from the replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerpos/internal/config"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/store"
	"ledgerpos/pkg/logger"
)

func main() {
	tenantFlag := flag.String("tenant", "", "check a single tenant (default: every tenant)")
	interval := flag.Duration("interval", 0, "repeat the check on this interval (0 runs once)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	st, err := store.New(pool, postgres.DefaultTxOptions())
	if err != nil {
		log.Fatalw("failed to create store", "error", err)
	}

	w := &worker{
		store:   st,
		checker: consistency.NewChecker(st.Counterparties(), st.Consistency()),
		log:     log.WithComponent("reconcile"),
	}
	if *tenantFlag != "" {
		tenantID, err := id.Parse(*tenantFlag)
		if err != nil {
			log.Fatalw("invalid tenant", "tenant", *tenantFlag, "error", err)
		}
		w.only = &tenantID
	}

	drifts := w.runOnce(ctx)
	if *interval <= 0 {
		if drifts > 0 {
			os.Exit(2)
		}
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

type worker struct {
	store   *store.Store
	checker *consistency.Checker
	log     *logger.Logger
	only    *id.ID
}

// runOnce checks every tenant and returns the number of drifts found.
func (w *worker) runOnce(ctx context.Context) int {
	tenants := []id.ID{}
	if w.only != nil {
		tenants = append(tenants, *w.only)
	} else {
		var err error
		tenants, err = w.store.Tenants(ctx)
		if err != nil {
			w.log.Errorw("failed to list tenants", "error", err)
			return 0
		}
	}

	total := 0
	for _, tenantID := range tenants {
		for _, kind := range []counterparty.Kind{counterparty.KindCustomer, counterparty.KindSupplier} {
			if ctx.Err() != nil {
				return total
			}
			report, err := w.checker.Check(ctx, tenantID, kind)
			if err != nil {
				w.log.Errorw("check failed", "tenant_id", tenantID, "kind", kind, "error", err)
				continue
			}
			for _, d := range report.Drifts {
				w.log.Warnw("balance drift",
					"tenant_id", tenantID,
					"kind", kind,
					"counterparty_id", d.CounterpartyID,
					"name", d.Name,
					"stored", d.Stored,
					"replayed", d.Replayed,
					"difference", d.Difference,
				)
			}
			total += len(report.Drifts)
			w.log.Infow("checked", "tenant_id", tenantID, "kind", kind, "counterparties", report.Checked, "drifts", len(report.Drifts))
		}
	}
	return total
}
