package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

const insertOperationSQL = `
	INSERT INTO operations
		(tx_hash, op_index, entity_key, sender, recipient, kind, data, btl,
		 new_owner, content_type, block_hash, block_number, tx_index, cost)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	ON CONFLICT (tx_hash, op_index) DO NOTHING
`

// InsertOperation inserts a single operation row, ignoring a primary-key
// conflict (the same queue row may be redelivered after a crash).
func (r *Repository) InsertOperation(ctx context.Context, tx *sqlx.Tx, op domain.Operation) error {
	if _, err := tx.ExecContext(ctx, insertOperationSQL,
		op.TxHash, op.OpIndex, op.EntityKey, op.Sender, op.Recipient, op.Kind, op.Data,
		op.BTL, op.NewOwner, op.ContentType, op.BlockHash, op.BlockNumber, op.TxIndex, op.Cost,
	); err != nil {
		return indexererrors.TransientErr("insert_operation", err)
	}
	return nil
}

// BatchInsertOperation inserts every operation in ops within the caller's
// transaction.
func (r *Repository) BatchInsertOperation(ctx context.Context, tx *sqlx.Tx, ops []domain.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, insertOperationSQL)
	if err != nil {
		return indexererrors.TransientErr("prepare batch_insert_operation", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		if _, err := stmt.ExecContext(ctx,
			op.TxHash, op.OpIndex, op.EntityKey, op.Sender, op.Recipient, op.Kind, op.Data,
			op.BTL, op.NewOwner, op.ContentType, op.BlockHash, op.BlockNumber, op.TxIndex, op.Cost,
		); err != nil {
			return indexererrors.TransientErr("batch_insert_operation", err)
		}
	}
	return nil
}

// UpdateOperation overwrites the mutable fields of an existing operation row
// — in practice only `cost`, patched in by the event-log phase.
func (r *Repository) UpdateOperation(ctx context.Context, tx *sqlx.Tx, op domain.Operation) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE operations SET cost = $3 WHERE tx_hash = $1 AND op_index = $2
	`, op.TxHash, op.OpIndex, op.Cost)
	if err != nil {
		return indexererrors.TransientErr("update_operation", err)
	}
	return nil
}

// GetOperation reads a single operation by its primary key.
func (r *Repository) GetOperation(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32, opIndex uint64) (domain.Operation, bool, error) {
	var op domain.Operation
	err := tx.GetContext(ctx, &op, `
		SELECT tx_hash, op_index, entity_key, sender, recipient, kind, data, btl,
		       new_owner, content_type, block_hash, block_number, tx_index, cost
		FROM operations WHERE tx_hash = $1 AND op_index = $2
	`, txHash, opIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operation{}, false, nil
		}
		return domain.Operation{}, false, indexererrors.TransientErr("get_operation", err)
	}
	return op, true, nil
}

// ListOperationsForEntity returns every operation touching entityKey,
// ordered by (block_number, tx_index, op_index) — the canonical order the
// reindex algorithm replays.
func (r *Repository) ListOperationsForEntity(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) ([]domain.Operation, error) {
	var ops []domain.Operation
	err := tx.SelectContext(ctx, &ops, `
		SELECT tx_hash, op_index, entity_key, sender, recipient, kind, data, btl,
		       new_owner, content_type, block_hash, block_number, tx_index, cost
		FROM operations WHERE entity_key = $1
		ORDER BY block_number, tx_index, op_index
	`, entityKey)
	if err != nil {
		return nil, indexererrors.TransientErr("list operations for entity", err)
	}
	return ops, nil
}

// AffectedEntityKeysForTx returns the distinct entity_keys of operations
// belonging to txHash — used by the cleanup phase to find what to reindex
// after the tx's rows are deleted.
func (r *Repository) AffectedEntityKeysForTx(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) ([]domain.Hash32, error) {
	var keys []domain.Hash32
	err := tx.SelectContext(ctx, &keys, `
		SELECT DISTINCT entity_key FROM operations WHERE tx_hash = $1
	`, txHash)
	if err != nil {
		return nil, indexererrors.TransientErr("affected entity keys for tx", err)
	}
	return keys, nil
}

// DeleteByTxHash cascades the deletion of every row derived from txHash, in
// the required order: string annotations → numeric annotations → history →
// operations. Must run inside tx.
func (r *Repository) DeleteByTxHash(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) error {
	stmts := []string{
		`DELETE FROM string_annotations WHERE tx_hash = $1`,
		`DELETE FROM numeric_annotations WHERE tx_hash = $1`,
		`DELETE FROM entity_history WHERE tx_hash = $1`,
		`DELETE FROM operations WHERE tx_hash = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, txHash); err != nil {
			return indexererrors.TransientErr("delete_by_tx_hash", err)
		}
	}
	return nil
}
