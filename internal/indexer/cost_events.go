package indexer

import (
	"context"

	"github.com/arkiv-network/indexer/internal/bridge"
	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// processEventLogs is phase 4. pending_log_events carries two unrelated
// kinds of log, distinguished by first_topic: OptimismPortal bridge events
// (TransactionDeposited/WithdrawalProven/WithdrawalFinalized), routed to
// internal/bridge, and cost-enrichment logs that patch the `cost` field of
// the operation they were emitted alongside — same transaction, op_index
// carried in the log's second_topic, cost carried in its data. A patched
// cost feeds into the entity's running total_cost, so the touched
// entity_key is still enqueued for reindex; what's different from phases 1
// and 2 is that the whole phase commits as one transaction rather than one
// per log, per spec.
func (ix *Indexer) processEventLogs(ctx context.Context) error {
	refs, err := ix.repo.StreamPendingLogEvents(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	tx, err := ix.repo.BeginTx(ctx)
	if err != nil {
		return indexererrors.TransientErr("begin process_event_logs tx", err)
	}
	defer tx.Rollback()

	for _, ref := range refs {
		logRow, err := ix.repo.LoadLogByRef(ctx, ref)
		if err != nil {
			if indexererrors.IsSkippable(err) {
				ix.log.WithContext(ctx).WithError(err).
					WithField("tx_hash", ref.TxHash.String()).
					Warn("process_event_logs: skipping log")
				if ackErr := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); ackErr != nil {
					return ackErr
				}
				continue
			}
			return err
		}

		handled, err := bridge.HandleLog(ctx, tx, ix.repo, logRow)
		if err != nil {
			if indexererrors.IsSkippable(err) {
				ix.log.WithContext(ctx).WithError(err).
					WithField("tx_hash", ref.TxHash.String()).
					Warn("process_event_logs: skipping malformed bridge log")
				if ackErr := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); ackErr != nil {
					return ackErr
				}
				continue
			}
			return err
		}
		if handled {
			if err := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
				return err
			}
			continue
		}

		if logRow.SecondTopic == nil {
			ix.log.WithContext(ctx).WithField("tx_hash", ref.TxHash.String()).
				Warn("process_event_logs: skipping log missing second_topic")
			if err := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
				return err
			}
			continue
		}

		opIndex := codec.Uint64FromHash32(*logRow.SecondTopic)
		cost, err := codec.DecodeCostLogData(logRow.Data)
		if err != nil {
			if indexererrors.IsSkippable(err) {
				ix.log.WithContext(ctx).WithError(err).
					WithField("tx_hash", ref.TxHash.String()).
					Warn("process_event_logs: skipping malformed cost log")
				if ackErr := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); ackErr != nil {
					return ackErr
				}
				continue
			}
			return err
		}

		op, ok, err := ix.repo.GetOperation(ctx, tx, logRow.TxHash, opIndex)
		if err != nil {
			return err
		}
		if !ok {
			ix.log.WithContext(ctx).WithField("tx_hash", ref.TxHash.String()).
				Warn("process_event_logs: skipping log referencing unknown operation")
			if err := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
				return err
			}
			continue
		}
		op.Cost = &cost

		if err := ix.repo.UpdateOperation(ctx, tx, op); err != nil {
			return err
		}
		if err := ix.repo.BatchQueueReindex(ctx, tx, []domain.Hash32{op.EntityKey}); err != nil {
			return err
		}
		if err := ix.repo.FinishLogEventProcessing(ctx, tx, ref.TxHash, ref.BlockHash, ref.LogIndex); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return indexererrors.TransientErr("commit process_event_logs tx", err)
	}
	return nil
}
