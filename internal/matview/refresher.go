// Package matview refreshes the read-side materialized views the indexer
// maintains on top of entities/entity_history/annotations, on two cadences:
// a fast one for views users expect to be near-live, and a slow one for
// views too expensive to refresh at the fast cadence.
package matview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/logging"
)

// Refresher issues `REFRESH MATERIALIZED VIEW CONCURRENTLY` against every
// view in fastViews and slowViews on their respective tickers.
type Refresher struct {
	db           *sqlx.DB
	log          *logging.Logger
	fastInterval time.Duration
	slowInterval time.Duration
}

// New builds a Refresher against db.
func New(db *sqlx.DB, log *logging.Logger, fastInterval, slowInterval time.Duration) *Refresher {
	return &Refresher{db: db, log: log, fastInterval: fastInterval, slowInterval: slowInterval}
}

// Run blocks until ctx is cancelled, refreshing fastViews and slowViews on
// their independent tickers concurrently.
func (r *Refresher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		r.loop(ctx, fastViews, r.fastInterval)
	}()
	go func() {
		defer wg.Done()
		r.loop(ctx, slowViews, r.slowInterval)
	}()

	wg.Wait()
	return ctx.Err()
}

func (r *Refresher) loop(ctx context.Context, views []string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll(ctx, views)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context, views []string) {
	for _, view := range views {
		if err := r.refreshOne(ctx, view); err != nil {
			r.log.WithContext(ctx).WithError(err).
				WithField("view", view).
				Warn("matview: refresh failed, will retry on next tick")
		}
	}
}

func (r *Refresher) refreshOne(ctx context.Context, view string) error {
	stmt := fmt.Sprintf("REFRESH MATERIALIZED VIEW CONCURRENTLY %s", view)
	_, err := r.db.ExecContext(ctx, stmt)
	return err
}
