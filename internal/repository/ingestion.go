package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

const txColumns = `hash, from_address_hash, to_address_hash, block_hash, block_number,
	block_timestamp, index, input, status, cumulative_gas_used, gas_price`

// GetTx reads one transaction by hash, within the caller's transaction so
// the tick sees a consistent snapshot. A missing row is DanglingReference:
// the queue entry outlived the row it referenced.
func (r *Repository) GetTx(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) (domain.Tx, error) {
	var t domain.Tx
	err := tx.GetContext(ctx, &t, `SELECT `+txColumns+` FROM transactions WHERE hash = $1`, txHash)
	if err == sql.ErrNoRows {
		return domain.Tx{}, indexererrors.Dangling("transaction not found", err)
	}
	if err != nil {
		return domain.Tx{}, indexererrors.TransientErr("get_tx", err)
	}
	return t, nil
}

// GetCurrentBlock returns the highest-numbered consensus block.
func (r *Repository) GetCurrentBlock(ctx context.Context) (domain.Block, error) {
	var b domain.Block
	err := r.db.GetContext(ctx, &b, `
		SELECT hash, number, timestamp, consensus FROM blocks
		WHERE consensus = true ORDER BY number DESC LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return domain.Block{}, indexererrors.Dangling("no consensus block present", err)
	}
	if err != nil {
		return domain.Block{}, indexererrors.TransientErr("get_current_block", err)
	}
	return b, nil
}

// GetBlock reads a block by hash.
func (r *Repository) GetBlock(ctx context.Context, blockHash domain.Hash32) (domain.Block, error) {
	var b domain.Block
	err := r.db.GetContext(ctx, &b, `
		SELECT hash, number, timestamp, consensus FROM blocks WHERE hash = $1
	`, blockHash)
	if err == sql.ErrNoRows {
		return domain.Block{}, indexererrors.Dangling("block not found", err)
	}
	if err != nil {
		return domain.Block{}, indexererrors.TransientErr("get_block", err)
	}
	return b, nil
}

const logColumns = `transaction_hash, block_hash, index, address_hash, first_topic,
	second_topic, third_topic, fourth_topic, data, block_number`

// GetTxLogs returns every log of txHash whose first_topic equals topic.
func (r *Repository) GetTxLogs(ctx context.Context, txHash domain.Hash32, topic domain.Hash32) ([]domain.Log, error) {
	var rows []domain.Log
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+logColumns+` FROM logs WHERE transaction_hash = $1 AND first_topic = $2
		ORDER BY index
	`, txHash, topic)
	if err != nil {
		return nil, indexererrors.TransientErr("get_tx_logs", err)
	}
	return rows, nil
}

// FindLatestLog returns the most recent log matching topic whose
// second_topic equals entityKey — the shape an EntityBTLExtended lookup
// needs.
func (r *Repository) FindLatestLog(ctx context.Context, topic, entityKey domain.Hash32) (domain.Log, bool, error) {
	var l domain.Log
	err := r.db.GetContext(ctx, &l, `
		SELECT `+logColumns+` FROM logs WHERE first_topic = $1 AND second_topic = $2
		ORDER BY block_number DESC, index DESC LIMIT 1
	`, topic, entityKey)
	if err == sql.ErrNoRows {
		return domain.Log{}, false, nil
	}
	if err != nil {
		return domain.Log{}, false, indexererrors.TransientErr("find_latest_log", err)
	}
	return l, true, nil
}

// LoadLogByRef re-reads a single log row identified by the composite key a
// pending_delete_logs/pending_log_events row carries.
func (r *Repository) LoadLogByRef(ctx context.Context, ref PendingLogRef) (domain.Log, error) {
	var l domain.Log
	err := r.db.GetContext(ctx, &l, `
		SELECT `+logColumns+` FROM logs WHERE transaction_hash = $1 AND block_hash = $2 AND index = $3
	`, ref.TxHash, ref.BlockHash, ref.LogIndex)
	if err == sql.ErrNoRows {
		return domain.Log{}, indexererrors.Dangling("log not found for queued ref", err)
	}
	if err != nil {
		return domain.Log{}, indexererrors.TransientErr("load log by ref", err)
	}
	return l, nil
}
