// Package indexer implements the five-phase tick: decoding pending storage
// transactions into operations, synthesizing Delete operations from
// housekeeping expiration logs, cleaning up reorged transactions, enriching
// operations with their cost from event logs, and reindexing touched
// entities into their current projection and history.
package indexer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachBounded runs fn(item) for every item in items with at most
// concurrency goroutines in flight at once. It stops launching new work once
// the group's context is cancelled (by the first error) but waits for
// in-flight items to finish, mirroring the teacher's
// scoped-transaction-per-item pattern: a failure in one item's transaction
// never corrupts another's.
func forEachBounded[T any](ctx context.Context, concurrency int, items []T, fn func(context.Context, T) error) error {
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			return fn(gctx, item)
		})
	}
	return g.Wait()
}
