package app

import (
	"context"
	"time"

	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// runTickLoop calls Tick on cfg.Indexer.PollingInterval. Any error from Tick
// is logged with its fault kind and the loop sleeps RestartDelay before the
// next attempt instead of spinning; only cancellation of ctx ends the loop.
func (a *App) runTickLoop(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Indexer.PollingInterval)
	defer ticker.Stop()

	for {
		if err := a.ix.Tick(ctx); err != nil {
			a.log.WithContext(ctx).WithError(err).WithField("kind", indexererrors.KindOf(err)).
				Warn("tick: failure, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.cfg.Indexer.RestartDelay):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runGaugeUpdater samples queue depths on cfg.GaugeInterval and publishes
// them to the Prometheus gauges. A sampling failure is logged and retried
// next tick rather than aborting the app — a missed gauge sample is not
// worth losing the rest of the pipeline over.
func (a *App) runGaugeUpdater(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.GaugeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.sampleGauges(ctx)
		}
	}
}

func (a *App) sampleGauges(ctx context.Context) {
	depths, err := a.repo.GaugeQueueDepths(ctx)
	if err != nil {
		a.log.WithContext(ctx).WithError(err).Warn("gauge updater: failed to sample queue depths")
		return
	}
	a.metrics.PendingTransactions.Set(float64(depths.PendingTransactions))
	a.metrics.PendingReorgs.Set(float64(depths.PendingTransactionReorgs))
	a.metrics.PendingLogs.Set(float64(depths.PendingLogs))
}
