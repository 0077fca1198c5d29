package indexer

import (
	"context"

	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
	"github.com/arkiv-network/indexer/internal/repository"
)

// processTxOperations is phase 1: every pending transaction, in
// (block_number, tx_index) order, is decoded into its ordered bundle of
// operations — creates, then deletes, then updates, then extends, then
// change_owners — each batch-inserted and its touched entity_keys enqueued
// for reindex, all within one transaction per tx.
func (ix *Indexer) processTxOperations(ctx context.Context) error {
	refs, err := ix.repo.StreamPendingTxHashes(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := ix.processOneTx(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) processOneTx(ctx context.Context, ref repository.PendingTxRef) error {
	tx, err := ix.repo.BeginTx(ctx)
	if err != nil {
		return indexererrors.TransientErr("begin process_tx_operations tx", err)
	}
	defer tx.Rollback()

	record, err := ix.repo.GetTx(ctx, tx, ref.TxHash)
	if err != nil {
		if indexererrors.IsSkippable(err) {
			ix.log.WithContext(ctx).WithError(err).WithField("tx_hash", ref.TxHash.String()).
				Warn("process_tx_operations: skipping dangling tx")
			if ackErr := ix.repo.FinishTxProcessing(ctx, tx, ref.TxHash); ackErr != nil {
				return ackErr
			}
			return tx.Commit()
		}
		return err
	}

	decoded, err := codec.DecodeStorageTx(record.Input)
	if err != nil {
		if indexererrors.IsSkippable(err) {
			ix.log.WithContext(ctx).WithError(err).WithField("tx_hash", ref.TxHash.String()).
				Warn("process_tx_operations: skipping malformed calldata")
			if ackErr := ix.repo.FinishTxProcessing(ctx, tx, ref.TxHash); ackErr != nil {
				return ackErr
			}
			return tx.Commit()
		}
		return err
	}

	ops, strAnns, numAnns := buildOperations(record, decoded)
	if err := ix.repo.BatchInsertOperation(ctx, tx, ops); err != nil {
		return err
	}
	if err := ix.repo.BatchInsertStringAnnotation(ctx, tx, strAnns); err != nil {
		return err
	}
	if err := ix.repo.BatchInsertNumericAnnotation(ctx, tx, numAnns); err != nil {
		return err
	}

	keys := make([]domain.Hash32, 0, len(ops))
	seen := make(map[domain.Hash32]struct{}, len(ops))
	for _, op := range ops {
		if _, ok := seen[op.EntityKey]; ok {
			continue
		}
		seen[op.EntityKey] = struct{}{}
		keys = append(keys, op.EntityKey)
	}
	if err := ix.repo.BatchQueueReindex(ctx, tx, keys); err != nil {
		return err
	}

	if err := ix.repo.FinishTxProcessing(ctx, tx, ref.TxHash); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return indexererrors.TransientErr("commit process_tx_operations tx", err)
	}

	ix.metrics.ProcessedTransactions.Inc()
	ix.metrics.ProcessedOperations.Add(float64(len(ops)))
	return nil
}

// buildOperations assembles record's decoded bundle into a flat,
// monotonically op_index'd slice in the canonical source order: creates,
// deletes, updates, extends, change_owners. A Create's entity_key doesn't
// exist until this moment — it's derived from (tx hash, data, op_index).
func buildOperations(record domain.Tx, decoded domain.StorageTx) ([]domain.Operation, []domain.StringAnnotation, []domain.NumericAnnotation) {
	ops := make([]domain.Operation, 0,
		len(decoded.Creates)+len(decoded.Deletes)+len(decoded.Updates)+len(decoded.Extends)+len(decoded.ChangeOwners))
	var strAnns []domain.StringAnnotation
	var numAnns []domain.NumericAnnotation
	var idx uint64

	base := func(kind domain.OperationKind) domain.Operation {
		op := domain.Operation{
			TxHash:      record.Hash,
			OpIndex:     idx,
			Sender:      record.FromAddress,
			Kind:        kind,
			BlockHash:   record.BlockHash,
			BlockNumber: record.BlockNumber,
			TxIndex:     record.Index,
		}
		if record.ToAddress != nil {
			op.Recipient = *record.ToAddress
		}
		idx++
		return op
	}

	addAnnotations := func(entityKey domain.Hash32, op domain.Operation, strs []domain.AnnotationInput, nums []domain.NumericAnnotationInput) {
		for _, a := range strs {
			strAnns = append(strAnns, domain.StringAnnotation{
				EntityKey: entityKey, TxHash: op.TxHash, OpIndex: op.OpIndex,
				Key: a.Key, Value: a.Value, Active: false,
			})
		}
		for _, a := range nums {
			numAnns = append(numAnns, domain.NumericAnnotation{
				EntityKey: entityKey, TxHash: op.TxHash, OpIndex: op.OpIndex,
				Key: a.Key, Value: a.Value, Active: false,
			})
		}
	}

	for _, c := range decoded.Creates {
		op := base(domain.OpCreate)
		op.EntityKey = codec.EntityKey(record.Hash, c.Data, op.OpIndex)
		data := c.Data
		btl := c.BTL
		contentType := c.ContentType
		op.Data = data
		op.BTL = &btl
		op.ContentType = &contentType
		ops = append(ops, op)
		addAnnotations(op.EntityKey, op, c.StringAnnotations, c.NumericAnnotations)
	}
	for _, d := range decoded.Deletes {
		op := base(domain.OpDelete)
		op.EntityKey = d.EntityKey
		ops = append(ops, op)
	}
	for _, u := range decoded.Updates {
		op := base(domain.OpUpdate)
		op.EntityKey = u.EntityKey
		data := u.Data
		btl := u.BTL
		contentType := u.ContentType
		op.Data = data
		op.BTL = &btl
		op.ContentType = &contentType
		ops = append(ops, op)
		addAnnotations(op.EntityKey, op, u.StringAnnotations, u.NumericAnnotations)
	}
	for _, e := range decoded.Extends {
		op := base(domain.OpExtend)
		op.EntityKey = e.EntityKey
		btl := e.BTL
		op.BTL = &btl
		ops = append(ops, op)
	}
	for _, c := range decoded.ChangeOwners {
		op := base(domain.OpChangeOwner)
		op.EntityKey = c.EntityKey
		newOwner := c.NewOwner
		op.NewOwner = &newOwner
		ops = append(ops, op)
	}

	return ops, strAnns, numAnns
}
