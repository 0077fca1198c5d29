package indexer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
	"github.com/arkiv-network/indexer/internal/repository"
)

// processDeleteLogs is phase 2: every pending housekeeping-expiration log is
// turned into a synthetic Delete operation — the log carries no calldata, so
// its entity_key comes from the log's second_topic rather than a decoded
// batch. The log's own (tx_hash, index) doubles as the operation's
// (tx_hash, op_index): a log index is unique within its transaction, so this
// never collides with another operation already recorded against that tx.
func (ix *Indexer) processDeleteLogs(ctx context.Context) error {
	refs, err := ix.repo.StreamPendingDeleteLogs(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := ix.processOneDeleteLog(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) processOneDeleteLog(ctx context.Context, ref repository.PendingLogRef) error {
	tx, err := ix.repo.BeginTx(ctx)
	if err != nil {
		return indexererrors.TransientErr("begin process_delete_logs tx", err)
	}
	defer tx.Rollback()

	logRow, err := ix.repo.LoadLogByRef(ctx, ref)
	if err != nil {
		if indexererrors.IsSkippable(err) {
			return ix.ackDeleteLog(ctx, tx, ref, err)
		}
		return err
	}
	if logRow.SecondTopic == nil {
		return ix.ackDeleteLog(ctx, tx, ref,
			indexererrors.Malformed("EntityDeleted log missing second_topic", nil))
	}

	op := domain.Operation{
		TxHash:      logRow.TxHash,
		OpIndex:     uint64(logRow.Index),
		EntityKey:   *logRow.SecondTopic,
		Sender:      logRow.AddressHash,
		Recipient:   logRow.AddressHash,
		Kind:        domain.OpDelete,
		BlockHash:   logRow.BlockHash,
		BlockNumber: logRow.BlockNumber,
	}

	if err := ix.repo.InsertOperation(ctx, tx, op); err != nil {
		return err
	}
	if err := ix.repo.BatchQueueReindex(ctx, tx, []domain.Hash32{op.EntityKey}); err != nil {
		return err
	}
	if err := ix.repo.FinishLogProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return indexererrors.TransientErr("commit process_delete_logs tx", err)
	}
	return nil
}

func (ix *Indexer) ackDeleteLog(ctx context.Context, tx *sqlx.Tx, ref repository.PendingLogRef, cause error) error {
	ix.log.WithContext(ctx).WithError(cause).
		WithField("tx_hash", ref.TxHash.String()).
		WithField("log_index", ref.LogIndex).
		Warn("process_delete_logs: skipping log")
	if err := ix.repo.FinishLogProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
		return err
	}
	return tx.Commit()
}
