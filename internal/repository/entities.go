package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// ReplaceEntity upserts the current-entity projection row for
// entity.EntityKey.
func (r *Repository) ReplaceEntity(ctx context.Context, tx *sqlx.Tx, e domain.FullEntity) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO entities
			(entity_key, data, status, owner, created_at_tx_hash, last_updated_at_tx_hash,
			 expires_at_block_number, content_type, created_at_operation_index, created_at_block_number,
			 created_at_timestamp, updated_at_operation_index, updated_at_block_number, updated_at_timestamp,
			 creator)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (entity_key) DO UPDATE SET
			data = EXCLUDED.data,
			status = EXCLUDED.status,
			owner = EXCLUDED.owner,
			last_updated_at_tx_hash = EXCLUDED.last_updated_at_tx_hash,
			expires_at_block_number = EXCLUDED.expires_at_block_number,
			content_type = EXCLUDED.content_type,
			updated_at_operation_index = EXCLUDED.updated_at_operation_index,
			updated_at_block_number = EXCLUDED.updated_at_block_number,
			updated_at_timestamp = EXCLUDED.updated_at_timestamp
	`,
		e.EntityKey, e.Data, e.Status, e.Owner, e.CreatedAtTxHash, e.LastUpdatedAtTxHash,
		e.ExpiresAtBlockNumber, e.ContentType, e.CreatedAtOperationIndex, e.CreatedAtBlockNumber,
		e.CreatedAtTimestamp, e.UpdatedAtOperationIndex, e.UpdatedAtBlockNumber, e.UpdatedAtTimestamp,
		e.Creator,
	)
	if err != nil {
		return indexererrors.TransientErr("replace_entity", err)
	}
	return nil
}

// DropEntity deletes the current-entity row for entityKey — the outcome of
// reindexing a key with no remaining canonical operations.
func (r *Repository) DropEntity(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE entity_key = $1`, entityKey)
	if err != nil {
		return indexererrors.TransientErr("drop_entity", err)
	}
	return nil
}

// GetEntity reads the current projection for entityKey, if it exists.
func (r *Repository) GetEntity(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) (domain.FullEntity, bool, error) {
	var e domain.FullEntity
	err := tx.GetContext(ctx, &e, `
		SELECT entity_key, data, status, owner, created_at_tx_hash, last_updated_at_tx_hash,
		       expires_at_block_number, content_type, created_at_operation_index, created_at_block_number,
		       created_at_timestamp, updated_at_operation_index, updated_at_block_number, updated_at_timestamp,
		       creator
		FROM entities WHERE entity_key = $1
	`, entityKey)
	if err == sql.ErrNoRows {
		return domain.FullEntity{}, false, nil
	}
	if err != nil {
		return domain.FullEntity{}, false, indexererrors.TransientErr("get_entity", err)
	}
	return e, true, nil
}

// EntitiesWithLastUpdater returns every current entity_key whose
// last_updated_at_tx_hash equals txHash — used by the cleanup phase to find
// entities a reorged tx may have last touched.
func (r *Repository) EntitiesWithLastUpdater(ctx context.Context, tx *sqlx.Tx, txHash domain.Hash32) ([]domain.Hash32, error) {
	var keys []domain.Hash32
	err := tx.SelectContext(ctx, &keys, `
		SELECT entity_key FROM entities WHERE last_updated_at_tx_hash = $1
	`, txHash)
	if err != nil {
		return nil, indexererrors.TransientErr("entities with last updater", err)
	}
	return keys, nil
}
