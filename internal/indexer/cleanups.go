package indexer

import (
	"context"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// processTxCleanups is phase 3: every tx_hash a reorg pulled out of the
// canonical chain has its derived rows cascade-deleted. Unlike phases 1 and
// 2, the whole phase runs in a single transaction — cleanup must never leave
// a half-reorged state visible — draining both the cleanup queue and any
// operations the tx still had pending in phase 1's queue, then enqueuing
// every affected entity_key for reindex once, after every tx is drained.
func (ix *Indexer) processTxCleanups(ctx context.Context) error {
	txHashes, err := ix.repo.StreamTxHashesForCleanup(ctx)
	if err != nil {
		return err
	}
	if len(txHashes) == 0 {
		return nil
	}

	tx, err := ix.repo.BeginTx(ctx)
	if err != nil {
		return indexererrors.TransientErr("begin process_tx_cleanups tx", err)
	}
	defer tx.Rollback()

	affected := make(map[domain.Hash32]struct{})

	for _, txHash := range txHashes {
		fromOps, err := ix.repo.AffectedEntityKeysForTx(ctx, tx, txHash)
		if err != nil {
			return err
		}
		fromEntities, err := ix.repo.EntitiesWithLastUpdater(ctx, tx, txHash)
		if err != nil {
			return err
		}
		for _, k := range fromOps {
			affected[k] = struct{}{}
		}
		for _, k := range fromEntities {
			affected[k] = struct{}{}
		}

		if err := ix.repo.DeleteByTxHash(ctx, tx, txHash); err != nil {
			return err
		}
		if err := ix.repo.FinishTxCleanup(ctx, tx, txHash); err != nil {
			return err
		}
		if err := ix.repo.FinishTxProcessing(ctx, tx, txHash); err != nil {
			return err
		}

		ix.metrics.ProcessedReorgs.Inc()
	}

	keys := make([]domain.Hash32, 0, len(affected))
	for k := range affected {
		keys = append(keys, k)
	}
	if err := ix.repo.BatchQueueReindex(ctx, tx, keys); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return indexererrors.TransientErr("commit process_tx_cleanups tx", err)
	}
	return nil
}
