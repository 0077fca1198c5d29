package l3poller

import (
	"context"
	"fmt"
	"math/big"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
	"github.com/arkiv-network/indexer/internal/resilience"
)

// checkReceiptBloom is a consistency check, not a filter: it fetches the
// receipt for the transaction that produced l and warns when its logs
// bloom claims the message passer address is absent despite FilterLogs
// having just returned a log from it — a node serving inconsistent state
// between eth_getLogs and the receipt it issued for the same block.
func (t *chainTask) checkReceiptBloom(ctx context.Context, l ethtypes.Log) {
	var receipt *ethtypes.Receipt
	err := t.breaker.Execute(ctx, func() error {
		return resilience.Retry(ctx, t.retry, func() error {
			r, err := t.client.TransactionReceipt(ctx, l.TxHash)
			if err != nil {
				return err
			}
			receipt = r
			return nil
		})
	})
	if err != nil {
		t.log.WithContext(ctx).WithError(err).
			WithField("chain_id", t.chainID).
			WithField("tx_hash", l.TxHash.Hex()).
			Warn("l3poller: could not fetch receipt for bloom check")
		return
	}
	if !receipt.Bloom.Test(l.Address.Bytes()) {
		t.log.WithContext(ctx).
			WithField("chain_id", t.chainID).
			WithField("tx_hash", l.TxHash.Hex()).
			Warn("l3poller: receipt logs bloom does not include message passer address despite a matching log being present")
	}
}

// extractWithdrawal decodes one L2ToL1MessagePasser MessagePassed log into
// an L3Withdrawal row. BlockTimestamp is left zero-valued here; pollOnce
// fills it in once per distinct block via blockTimestamp, since a batch of
// logs sharing a block should only pay for that header round trip once.
func extractWithdrawal(chainID uint64, l ethtypes.Log) (domain.L3Withdrawal, error) {
	w, err := codec.DecodeMessagePassed(chainID, domain.Hash32(l.TxHash), domain.Hash32(l.BlockHash), domain.BlockNumber(l.BlockNumber), l.Data)
	if err != nil {
		return domain.L3Withdrawal{}, fmt.Errorf("block %d log %d: %w", l.BlockNumber, l.Index, err)
	}
	return w, nil
}

// blockTimestamp fetches the wall-clock time of blockNumber, wrapped in the
// same circuit breaker and retry policy as every other RPC call this task
// makes.
func (t *chainTask) blockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	var ts time.Time
	err := t.breaker.Execute(ctx, func() error {
		return resilience.Retry(ctx, t.retry, func() error {
			header, err := t.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
			if err != nil {
				return err
			}
			ts = time.Unix(int64(header.Time), 0).UTC()
			return nil
		})
	})
	return ts, err
}
