package indexer

import (
	"context"

	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// Tick runs the five phases in strict order, each in its own set of
// transactions. A Transient error aborts the tick immediately — the caller
// (the run loop) is expected to sleep RestartDelay and call Tick again. Any
// other per-item error was already logged and swallowed inside the phase.
func (ix *Indexer) Tick(ctx context.Context) error {
	if err := ix.processTxOperations(ctx); err != nil {
		return wrapPhase("process_tx_operations", err)
	}
	if err := ix.processDeleteLogs(ctx); err != nil {
		return wrapPhase("process_delete_logs", err)
	}
	if err := ix.processTxCleanups(ctx); err != nil {
		return wrapPhase("process_tx_cleanups", err)
	}
	if err := ix.processEventLogs(ctx); err != nil {
		return wrapPhase("process_event_logs", err)
	}
	if err := ix.processReindexQueue(ctx); err != nil {
		return wrapPhase("process_reindex_queue", err)
	}
	return nil
}

func wrapPhase(phase string, err error) error {
	if indexererrors.KindOf(err) == indexererrors.Transient {
		return indexererrors.TransientErr(phase, err)
	}
	return err
}
