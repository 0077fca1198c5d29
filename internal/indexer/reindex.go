package indexer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// processReindexQueue is phase 5: every entity_key in reindex_queue is
// rebuilt from scratch, each in its own transaction, concurrency bounded by
// settings.Concurrency. Reindexing a key that has lost every operation
// (a full reorg cleanup) drops its current-entity row entirely.
func (ix *Indexer) processReindexQueue(ctx context.Context) error {
	keys, err := ix.repo.StreamEntitiesToReindex(ctx)
	if err != nil {
		return err
	}
	return forEachBounded(ctx, ix.settings.Concurrency, keys, ix.reindexOne)
}

func (ix *Indexer) reindexOne(ctx context.Context, entityKey domain.Hash32) error {
	tx, err := ix.repo.BeginTx(ctx)
	if err != nil {
		return indexererrors.TransientErr("begin reindex tx", err)
	}
	defer tx.Rollback()

	if err := ix.rebuildEntity(ctx, tx, entityKey); err != nil {
		if indexererrors.IsSkippable(err) {
			ix.log.WithContext(ctx).WithError(err).WithField("entity_key", entityKey.String()).
				Warn("reindex: skipping entity")
			_ = tx.Rollback()
			ackTx, err := ix.repo.BeginTx(ctx)
			if err != nil {
				return indexererrors.TransientErr("begin reindex ack tx", err)
			}
			defer ackTx.Rollback()
			if err := ix.repo.FinishReindex(ctx, ackTx, entityKey); err != nil {
				return err
			}
			if err := ackTx.Commit(); err != nil {
				return indexererrors.TransientErr("commit reindex ack tx", err)
			}
			return nil
		}
		return err
	}

	if err := ix.repo.FinishReindex(ctx, tx, entityKey); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return indexererrors.TransientErr("commit reindex tx", err)
	}
	return nil
}

// rebuildEntity replays every surviving operation for entityKey in canonical
// order, rebuilding its history from scratch and deriving the current
// projection from the last entry. Idempotent: running it twice on an
// unchanged operation set produces byte-identical history and entity rows.
func (ix *Indexer) rebuildEntity(ctx context.Context, tx *sqlx.Tx, entityKey domain.Hash32) error {
	ops, err := ix.repo.ListOperationsForEntity(ctx, tx, entityKey)
	if err != nil {
		return err
	}

	if err := ix.repo.DeleteHistory(ctx, tx, entityKey); err != nil {
		return err
	}

	if len(ops) == 0 {
		if err := ix.repo.DeactivateAnnotations(ctx, tx, entityKey); err != nil {
			return err
		}
		return ix.repo.DropEntity(ctx, tx, entityKey)
	}

	ref, refOK, err := ix.referenceBlock(ctx)
	if err != nil {
		return err
	}

	var (
		entries           = make([]domain.HistoryEntry, 0, len(ops))
		prev              domain.HistoryEntry
		prevOK            bool
		createdBy         *domain.Hash32
		createdAt         domain.Operation
		activeAnnIndex    domain.AnnotationIndex
		activeAnnIndexSet bool
	)

	for _, op := range ops {
		entry := buildHistoryEntry(op, prev, prevOK, ref, refOK)
		entries = append(entries, entry)
		prev = entry
		prevOK = true

		if op.Kind == domain.OpCreate {
			txHash := op.TxHash
			createdBy = &txHash
			createdAt = op
		}

		// Extend leaves the active annotation index unchanged; Delete resets
		// it to ∅; every other kind (Create, Update, ChangeOwner) activates
		// its own annotations.
		switch op.Kind {
		case domain.OpExtend:
		case domain.OpDelete:
			activeAnnIndex = domain.AnnotationIndex{}
			activeAnnIndexSet = false
		default:
			activeAnnIndex = domain.AnnotationIndex{TxHash: op.TxHash, OpIndex: op.OpIndex}
			activeAnnIndexSet = true
		}
	}

	if err := ix.repo.BatchInsertHistoryEntry(ctx, tx, entries); err != nil {
		return err
	}

	last := entries[len(entries)-1]
	lastOp := ops[len(ops)-1]

	full := domain.FullEntity{
		Entity: domain.Entity{
			EntityKey:            entityKey,
			Data:                 last.Data,
			Status:               last.Status,
			Owner:                last.Owner,
			CreatedAtTxHash:      createdBy,
			LastUpdatedAtTxHash:  lastOp.TxHash,
			ExpiresAtBlockNumber: last.ExpiresAtBlockNumber,
			ContentType:          last.ContentType,
		},
		CreatedAtOperationIndex: createdAt.OpIndex,
		CreatedAtBlockNumber:    createdAt.BlockNumber,
		UpdatedAtOperationIndex: lastOp.OpIndex,
		UpdatedAtBlockNumber:    lastOp.BlockNumber,
		Creator:                 createdAt.Sender,
	}

	if refOK {
		if ts, ok := codec.BlockTimestamp(createdAt.BlockNumber, ref.Number, ref.Timestamp); ok {
			full.CreatedAtTimestamp = ts
		}
		if ts, ok := codec.BlockTimestamp(lastOp.BlockNumber, ref.Number, ref.Timestamp); ok {
			full.UpdatedAtTimestamp = ts
		}
	}

	if err := ix.repo.ReplaceEntity(ctx, tx, full); err != nil {
		return err
	}

	if err := ix.repo.DeactivateAnnotations(ctx, tx, entityKey); err != nil {
		return err
	}
	if !activeAnnIndexSet {
		return nil
	}
	return ix.repo.ActivateAnnotations(ctx, tx, entityKey, activeAnnIndex)
}

// referenceBlock returns the current consensus block, used as the reference
// point for extrapolating a block number into wall-clock time.
func (ix *Indexer) referenceBlock(ctx context.Context) (domain.Block, bool, error) {
	b, err := ix.repo.GetCurrentBlock(ctx)
	if err != nil {
		if indexererrors.KindOf(err) == indexererrors.DanglingReference {
			return domain.Block{}, false, nil
		}
		return domain.Block{}, false, err
	}
	return b, true, nil
}
