package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

const historyColumns = `tx_hash, op_index, entity_key, kind, block_hash, block_number, tx_index,
	owner, prev_owner, data, prev_data, status, prev_status,
	expires_at_block_number, prev_expires_at_block_number, expires_at_timestamp, prev_expires_at_timestamp,
	btl, content_type, prev_content_type, cost, total_cost`

const insertHistorySQL = `
	INSERT INTO entity_history (` + historyColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	ON CONFLICT (tx_hash, op_index) DO NOTHING
`

func historyArgs(h domain.HistoryEntry) []interface{} {
	return []interface{}{
		h.TxHash, h.OpIndex, h.EntityKey, h.Kind, h.BlockHash, h.BlockNumber, h.TxIndex,
		h.Owner, h.PrevOwner, h.Data, h.PrevData, h.Status, h.PrevStatus,
		h.ExpiresAtBlockNumber, h.PrevExpiresAtBlockNumber, h.ExpiresAtTimestamp, h.PrevExpiresAtTimestamp,
		h.BTL, h.ContentType, h.PrevContentType, h.Cost, h.TotalCost,
	}
}

// InsertHistoryEntry inserts a single history row.
func (r *Repository) InsertHistoryEntry(ctx context.Context, tx *sqlx.Tx, h domain.HistoryEntry) error {
	if _, err := tx.ExecContext(ctx, insertHistorySQL, historyArgs(h)...); err != nil {
		return indexererrors.TransientErr("insert_history_entry", err)
	}
	return nil
}

// BatchInsertHistoryEntry inserts every entry in entries, in order — the
// order the reindex algorithm must write them in.
func (r *Repository) BatchInsertHistoryEntry(ctx context.Context, tx *sqlx.Tx, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, insertHistorySQL)
	if err != nil {
		return indexererrors.TransientErr("prepare batch_insert_history_entry", err)
	}
	defer stmt.Close()

	for _, h := range entries {
		if _, err := stmt.ExecContext(ctx, historyArgs(h)...); err != nil {
			return indexererrors.TransientErr("batch_insert_history_entry", err)
		}
	}
	return nil
}

// DeleteHistory removes every history row for entityKey — the reindex
// algorithm's first step, rebuilding history from scratch each time.
func (r *Repository) DeleteHistory(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_history WHERE entity_key = $1`, entityKey); err != nil {
		return indexererrors.TransientErr("delete_history", err)
	}
	return nil
}

// GetLatestEntityHistoryEntry returns the most recent history entry for
// entityKey, optionally restricted to entries strictly before beforeIndex
// (ordered by block_number, tx_index, op_index).
func (r *Repository) GetLatestEntityHistoryEntry(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32, beforeIndex *domain.AnnotationIndex) (domain.HistoryEntry, bool, error) {
	var h domain.HistoryEntry
	var err error
	if beforeIndex == nil {
		err = tx.GetContext(ctx, &h, `
			SELECT `+historyColumns+` FROM entity_history WHERE entity_key = $1
			ORDER BY block_number DESC, tx_index DESC, op_index DESC LIMIT 1
		`, entityKey)
	} else {
		err = tx.GetContext(ctx, &h, `
			SELECT `+historyColumns+` FROM entity_history
			WHERE entity_key = $1 AND (block_number, tx_index, op_index) < (
				SELECT block_number, tx_index, op_index FROM entity_history
				WHERE tx_hash = $2 AND op_index = $3
			)
			ORDER BY block_number DESC, tx_index DESC, op_index DESC LIMIT 1
		`, entityKey, beforeIndex.TxHash, beforeIndex.OpIndex)
	}
	if err == sql.ErrNoRows {
		return domain.HistoryEntry{}, false, nil
	}
	if err != nil {
		return domain.HistoryEntry{}, false, indexererrors.TransientErr("get_latest_entity_history_entry", err)
	}
	return h, true, nil
}
