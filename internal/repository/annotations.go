package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// BatchInsertStringAnnotation inserts every string annotation in anns.
func (r *Repository) BatchInsertStringAnnotation(ctx context.Context, tx *sqlx.Tx, anns []domain.StringAnnotation) error {
	if len(anns) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO string_annotations (entity_key, tx_hash, op_index, key, value, active)
		VALUES ($1,$2,$3,$4,$5,$6)
	`)
	if err != nil {
		return indexererrors.TransientErr("prepare batch_insert_string_annotation", err)
	}
	defer stmt.Close()

	for _, a := range anns {
		if _, err := stmt.ExecContext(ctx, a.EntityKey, a.TxHash, a.OpIndex, a.Key, a.Value, a.Active); err != nil {
			return indexererrors.TransientErr("batch_insert_string_annotation", err)
		}
	}
	return nil
}

// BatchInsertNumericAnnotation inserts every numeric annotation in anns.
func (r *Repository) BatchInsertNumericAnnotation(ctx context.Context, tx *sqlx.Tx, anns []domain.NumericAnnotation) error {
	if len(anns) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO numeric_annotations (entity_key, tx_hash, op_index, key, value, active)
		VALUES ($1,$2,$3,$4,$5,$6)
	`)
	if err != nil {
		return indexererrors.TransientErr("prepare batch_insert_numeric_annotation", err)
	}
	defer stmt.Close()

	for _, a := range anns {
		if _, err := stmt.ExecContext(ctx, a.EntityKey, a.TxHash, a.OpIndex, a.Key, a.Value, a.Active); err != nil {
			return indexererrors.TransientErr("batch_insert_numeric_annotation", err)
		}
	}
	return nil
}

// DeactivateAnnotations marks every annotation of entityKey inactive.
func (r *Repository) DeactivateAnnotations(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) error {
	if _, err := tx.ExecContext(ctx, `UPDATE string_annotations SET active = false WHERE entity_key = $1`, entityKey); err != nil {
		return indexererrors.TransientErr("deactivate string annotations", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE numeric_annotations SET active = false WHERE entity_key = $1`, entityKey); err != nil {
		return indexererrors.TransientErr("deactivate numeric annotations", err)
	}
	return nil
}

// ActivateAnnotations marks the annotations set by the operation identified
// by (txHash, opIndex) for entityKey as active — the reindex algorithm's
// final step, pointing the active set at the latest surviving operation.
func (r *Repository) ActivateAnnotations(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32, idx domain.AnnotationIndex) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE string_annotations SET active = true
		WHERE entity_key = $1 AND tx_hash = $2 AND op_index = $3
	`, entityKey, idx.TxHash, idx.OpIndex); err != nil {
		return indexererrors.TransientErr("activate string annotations", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE numeric_annotations SET active = true
		WHERE entity_key = $1 AND tx_hash = $2 AND op_index = $3
	`, entityKey, idx.TxHash, idx.OpIndex); err != nil {
		return indexererrors.TransientErr("activate numeric annotations", err)
	}
	return nil
}
