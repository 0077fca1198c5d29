package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// StreamPendingTxHashes returns every row of pending_tx_operations ordered
// by (block_number, tx_index), the order phase 1 must process them in.
func (r *Repository) StreamPendingTxHashes(ctx context.Context) ([]PendingTxRef, error) {
	var out []PendingTxRef
	err := r.db.SelectContext(ctx, &out, `
		SELECT tx_hash, block_number, index AS tx_index
		FROM pending_tx_operations
		ORDER BY block_number, index
	`)
	if err != nil {
		return nil, indexererrors.TransientErr("stream pending_tx_operations", err)
	}
	return out, nil
}

// StreamTxHashesForCleanup returns every tx_hash awaiting reorg cleanup.
func (r *Repository) StreamTxHashesForCleanup(ctx context.Context) ([]domain.Hash32, error) {
	var out []domain.Hash32
	err := r.db.SelectContext(ctx, &out, `SELECT tx_hash FROM pending_tx_cleanups`)
	if err != nil {
		return nil, indexererrors.TransientErr("stream pending_tx_cleanups", err)
	}
	return out, nil
}

// StreamPendingDeleteLogs returns every pending housekeeping-expiration log.
func (r *Repository) StreamPendingDeleteLogs(ctx context.Context) ([]PendingLogRef, error) {
	var out []PendingLogRef
	err := r.db.SelectContext(ctx, &out, `
		SELECT tx_hash, block_hash, log_index, block_number
		FROM pending_delete_logs
		ORDER BY block_number, log_index
	`)
	if err != nil {
		return nil, indexererrors.TransientErr("stream pending_delete_logs", err)
	}
	return out, nil
}

// StreamPendingLogEvents returns every pending cost/bridge event log.
func (r *Repository) StreamPendingLogEvents(ctx context.Context) ([]PendingLogRef, error) {
	var out []PendingLogRef
	err := r.db.SelectContext(ctx, &out, `
		SELECT tx_hash, block_hash, log_index, block_number
		FROM pending_log_events
		ORDER BY block_number, log_index
	`)
	if err != nil {
		return nil, indexererrors.TransientErr("stream pending_log_events", err)
	}
	return out, nil
}

// StreamEntitiesToReindex returns every entity_key awaiting reindex.
func (r *Repository) StreamEntitiesToReindex(ctx context.Context) ([]domain.Hash32, error) {
	var out []domain.Hash32
	err := r.db.SelectContext(ctx, &out, `SELECT entity_key FROM reindex_queue`)
	if err != nil {
		return nil, indexererrors.TransientErr("stream reindex_queue", err)
	}
	return out, nil
}

// FinishTxProcessing acknowledges a drained pending_tx_operations row. Must
// run inside the same transaction as the writes it acknowledges.
func (r *Repository) FinishTxProcessing(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM pending_tx_operations WHERE tx_hash = $1`, txHash)
	if err != nil {
		return indexererrors.TransientErr("finish_tx_processing", err)
	}
	return nil
}

// FinishTxCleanup acknowledges a drained pending_tx_cleanups row.
func (r *Repository) FinishTxCleanup(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM pending_tx_cleanups WHERE tx_hash = $1`, txHash)
	if err != nil {
		return indexererrors.TransientErr("finish_tx_cleanup", err)
	}
	return nil
}

// FinishLogProcessing acknowledges a drained pending_delete_logs row.
func (r *Repository) FinishLogProcessing(ctx context.Context, tx *sqlx.Tx, txHash, blockHash domain.Hash32, logIndex uint32) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM pending_delete_logs WHERE tx_hash = $1 AND block_hash = $2 AND log_index = $3
	`, txHash, blockHash, logIndex)
	if err != nil {
		return indexererrors.TransientErr("finish_log_processing", err)
	}
	return nil
}

// FinishLogEventProcessing acknowledges a drained pending_log_events row.
func (r *Repository) FinishLogEventProcessing(ctx context.Context, tx *sqlx.Tx, txHash, blockHash domain.Hash32, logIndex uint32) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM pending_log_events WHERE tx_hash = $1 AND block_hash = $2 AND log_index = $3
	`, txHash, blockHash, logIndex)
	if err != nil {
		return indexererrors.TransientErr("finish_log_event_processing", err)
	}
	return nil
}

// BatchQueueReindex enqueues every key in keys for reindex, ignoring
// duplicates already queued.
func (r *Repository) BatchQueueReindex(ctx context.Context, tx *sqlx.Tx, keys []domain.Hash32) error {
	if len(keys) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO reindex_queue (entity_key) VALUES ($1)
		ON CONFLICT (entity_key) DO NOTHING
	`)
	if err != nil {
		return indexererrors.TransientErr("prepare batch_queue_reindex", err)
	}
	defer stmt.Close()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k); err != nil {
			return indexererrors.TransientErr("batch_queue_reindex", err)
		}
	}
	return nil
}

// FinishReindex removes entityKey from the reindex queue.
func (r *Repository) FinishReindex(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reindex_queue WHERE entity_key = $1`, entityKey)
	if err != nil {
		return indexererrors.TransientErr("finish_reindex", err)
	}
	return nil
}

// PendingQueueDepths reports the current depth of every queue the gauge
// updater reports as metrics.
type PendingQueueDepths struct {
	PendingTransactions      int64
	PendingTransactionReorgs int64
	PendingLogs              int64
}

// GaugeQueueDepths reads the current depth of the queues exposed as
// pending_* gauges.
func (r *Repository) GaugeQueueDepths(ctx context.Context) (PendingQueueDepths, error) {
	var out PendingQueueDepths
	if err := r.db.GetContext(ctx, &out.PendingTransactions, `SELECT count(*) FROM pending_tx_operations`); err != nil {
		return PendingQueueDepths{}, indexererrors.TransientErr("gauge pending_transactions", err)
	}
	if err := r.db.GetContext(ctx, &out.PendingTransactionReorgs, `SELECT count(*) FROM pending_tx_cleanups`); err != nil {
		return PendingQueueDepths{}, indexererrors.TransientErr("gauge pending_transaction_reorgs", err)
	}
	var deleteLogs, eventLogs int64
	if err := r.db.GetContext(ctx, &deleteLogs, `SELECT count(*) FROM pending_delete_logs`); err != nil {
		return PendingQueueDepths{}, indexererrors.TransientErr("gauge pending_logs (deletes)", err)
	}
	if err := r.db.GetContext(ctx, &eventLogs, `SELECT count(*) FROM pending_log_events`); err != nil {
		return PendingQueueDepths{}, indexererrors.TransientErr("gauge pending_logs (events)", err)
	}
	out.PendingLogs = deleteLogs + eventLogs
	return out, nil
}
