// Package app wires the indexer's tick loop, gauge updater, materialized-view
// refresher, and L3 poller supervisor into one run loop, mirroring the
// teacher service's Start/Stop lifecycle.
package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arkiv-network/indexer/internal/config"
	"github.com/arkiv-network/indexer/internal/indexer"
	"github.com/arkiv-network/indexer/internal/logging"
	"github.com/arkiv-network/indexer/internal/matview"
	"github.com/arkiv-network/indexer/internal/metrics"
	"github.com/arkiv-network/indexer/internal/repository"
)

// App owns every long-running component the indexer sidecar runs as one
// process: the tick loop, the queue-depth gauge updater, the materialized
// view refresher, and the L3 bridge-event poller supervisor.
type App struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Metrics
	repo    *repository.Repository
	ix      *indexer.Indexer
	views   *matview.Refresher
	pollers pollerSupervisor
}

// pollerSupervisor is the subset of l3poller.Supervisor App depends on,
// named here so app doesn't need an import cycle-prone direct dependency in
// tests.
type pollerSupervisor interface {
	Run(ctx context.Context) error
}

// New builds an App around an already-constructed repository and metrics
// instance — both shared with whatever else the caller wired against the
// same Prometheus registry and database handle (the L3 poller supervisor,
// in particular, so its counters land in the same registry this reports).
func New(cfg *config.Config, log *logging.Logger, repo *repository.Repository, m *metrics.Metrics, pollers pollerSupervisor) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		metrics: m,
		repo:    repo,
		ix:      indexer.New(repo, cfg.Indexer, m, log),
		views:   matview.New(repo.DB(), log, cfg.MatViewFastInterval, cfg.MatViewSlowInterval),
		pollers: pollers,
	}
}

// Run blocks, running every component concurrently, until ctx is cancelled
// or one component returns a non-cancellation error — at which point Run
// cancels the rest and returns that error.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.runTickLoop(gctx) })
	g.Go(func() error { return a.runGaugeUpdater(gctx) })
	g.Go(func() error { return a.views.Run(gctx) })
	if a.pollers != nil {
		g.Go(func() error { return a.pollers.Run(gctx) })
	}

	return ignoreCancellation(g.Wait())
}

func ignoreCancellation(err error) error {
	if err == nil || err == context.Canceled || err == context.DeadlineExceeded {
		return nil
	}
	return err
}
