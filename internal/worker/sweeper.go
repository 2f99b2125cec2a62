package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/google/uuid"
)

type StaleFinder interface {
	FindStale(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)
}

type StaleReconciler interface {
	ReconcileStale(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	CancelStale(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

type SweepStats struct {
	Scanned   int
	Resolved  int
	Cancelled int
	Failed    int
}

// StaleSweeper resolves transactions whose webhook never arrived. It polls the
// provider for anything older than pollAfter and cancels what is still open
// after cancelAfter. A provider outage never leads to a cancel; a definitive
// provider rejection past cancelAfter does.
type StaleSweeper struct {
	finder      StaleFinder
	engine      StaleReconciler
	interval    time.Duration
	batchSize   int
	pollAfter   time.Duration
	cancelAfter time.Duration
	logger      *slog.Logger
}

func NewStaleSweeper(
	finder StaleFinder,
	engine StaleReconciler,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *StaleSweeper {
	return &StaleSweeper{
		finder:      finder,
		engine:      engine,
		interval:    cfg.Interval,
		batchSize:   cfg.BatchSize,
		pollAfter:   cfg.PollAfter,
		cancelAfter: cfg.CancelAfter,
		logger:      logger,
	}
}

func (w *StaleSweeper) Start(ctx context.Context) {
	w.logger.Info("stale sweeper started",
		"interval", w.interval,
		"poll_after", w.pollAfter,
		"cancel_after", w.cancelAfter)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale sweeper stopping")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleSweeper) sweep(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("stale sweep failed", "error", err)
	}
}

// RunOnce processes one batch of stale transactions.
func (w *StaleSweeper) RunOnce(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	stale, err := w.finder.FindStale(ctx, w.pollAfter, w.batchSize)
	if err != nil {
		return stats, err
	}
	if len(stale) == 0 {
		return stats, nil
	}

	for _, tx := range stale {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		stats.Scanned++

		current := tx
		if tx.ProviderRef != nil {
			current, err = w.engine.ReconcileStale(ctx, tx.ID)
			switch {
			case err == nil:
			case domain.IsErrorCode(err, domain.ErrCodeProviderRejected) && time.Since(tx.CreatedAt) >= w.cancelAfter:
				// The provider answered and disowns the reference, so nothing
				// was charged. Cancel it or it heads every batch forever.
				w.logger.Warn("stale transaction rejected by provider",
					"transaction_id", tx.ID,
					"provider", tx.Provider,
					"error", err)
			default:
				// An unreachable provider may have taken the money.
				w.logger.Warn("stale transaction poll failed",
					"transaction_id", tx.ID,
					"provider", tx.Provider,
					"error", err)
				stats.Failed++
				continue
			}
			if current != nil && current.IsTerminal() {
				stats.Resolved++
				continue
			}
		}

		if time.Since(tx.CreatedAt) < w.cancelAfter {
			continue
		}

		cancelled, err := w.engine.CancelStale(ctx, tx.ID)
		if err != nil {
			w.logger.Error("failed to cancel stale transaction",
				"transaction_id", tx.ID,
				"error", err)
			stats.Failed++
			continue
		}
		if cancelled.Status == domain.StatusCancelled {
			stats.Cancelled++
		} else {
			stats.Resolved++
		}
	}

	w.logger.Info("processed stale transactions",
		"scanned", stats.Scanned,
		"resolved", stats.Resolved,
		"cancelled", stats.Cancelled,
		"failed", stats.Failed)

	return stats, nil
}
