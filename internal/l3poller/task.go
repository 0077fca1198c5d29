package l3poller

import (
	"context"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/arkiv-network/indexer/internal/domain"
	"github.com/arkiv-network/indexer/internal/logging"
	"github.com/arkiv-network/indexer/internal/metrics"
	"github.com/arkiv-network/indexer/internal/repository"
	"github.com/arkiv-network/indexer/internal/resilience"
)

// pollInterval is how long a chainTask sleeps between batches once it has
// caught up to the chain's head.
const pollInterval = 3 * time.Second

// chainTask polls a single L3 chain's RPC endpoint for new blocks, extracts
// MessagePassed withdrawal events from their logs, and persists progress.
type chainTask struct {
	chainID   uint64
	chainName string
	batchSize int

	client  *ethclient.Client
	repo    *repository.Repository
	log     *logging.Logger
	metrics *metrics.Metrics

	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

func newTask(chainID uint64, chainName, rpcURL string, batchSize int, repo *repository.Repository, log *logging.Logger, m *metrics.Metrics) (*chainTask, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial l3 rpc %s: %w", rpcURL, err)
	}
	return &chainTask{
		chainID:   chainID,
		chainName: chainName,
		batchSize: batchSize,
		client:    client,
		repo:      repo,
		log:       log,
		metrics:   m,
		breaker:   resilience.New(resilience.DefaultConfig()),
		retry:     resilience.DefaultRetryConfig(),
	}, nil
}

// run polls in a loop until ctx is cancelled or an unrecoverable error (one
// the circuit breaker itself raises, e.g. ErrCircuitOpen exhausting retry)
// bubbles up; the supervisor is responsible for backing off and reconnecting.
func (t *chainTask) run(ctx context.Context) error {
	defer t.client.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		progressed, err := t.pollOnce(ctx)
		if err != nil {
			return err
		}
		if !progressed {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
		}
	}
}

// pollOnce fetches the current head, computes the next unindexed block
// range, extracts its bridge events, persists them, and advances progress.
// It returns progressed=false when the chain has no new blocks to offer.
func (t *chainTask) pollOnce(ctx context.Context) (bool, error) {
	var head uint64
	err := t.breaker.Execute(ctx, func() error {
		return resilience.Retry(ctx, t.retry, func() error {
			h, err := t.client.BlockNumber(ctx)
			if err != nil {
				return err
			}
			head = h
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("fetch l3 head: %w", err)
	}

	chains, err := t.repo.ListEnabledL3Chains(ctx)
	if err != nil {
		return false, err
	}
	var lastIndexed domain.BlockNumber
	found := false
	for _, c := range chains {
		if c.ChainID == t.chainID {
			lastIndexed = c.LastIndexedBlock
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	from := uint64(lastIndexed) + 1
	if from > head {
		if err := t.repo.UpdateL3ChainProgress(ctx, t.chainID, lastIndexed, domain.BlockNumber(head)); err != nil {
			return false, err
		}
		return false, nil
	}

	to := from + uint64(t.batchSize) - 1
	if to > head {
		to = head
	}

	var logs []ethtypes.Log
	err = t.breaker.Execute(ctx, func() error {
		return resilience.Retry(ctx, t.retry, func() error {
			fetched, err := t.fetchMessagePassedLogs(ctx, from, to)
			if err != nil {
				return err
			}
			logs = fetched
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("fetch l3 logs [%d,%d]: %w", from, to, err)
	}

	blockTimestamps := make(map[uint64]time.Time)
	receiptBloomChecked := make(map[domain.Hash32]bool)
	for _, l := range logs {
		if !receiptBloomChecked[domain.Hash32(l.TxHash)] {
			t.checkReceiptBloom(ctx, l)
			receiptBloomChecked[domain.Hash32(l.TxHash)] = true
		}

		withdrawal, derr := extractWithdrawal(t.chainID, l)
		if derr != nil {
			t.log.WithContext(ctx).WithError(derr).
				WithField("chain_id", t.chainID).
				WithField("tx_hash", l.TxHash.Hex()).
				Warn("l3poller: skipping malformed MessagePassed log")
			continue
		}
		ts, ok := blockTimestamps[l.BlockNumber]
		if !ok {
			var tsErr error
			ts, tsErr = t.blockTimestamp(ctx, l.BlockNumber)
			if tsErr != nil {
				return false, fmt.Errorf("fetch block %d timestamp: %w", l.BlockNumber, tsErr)
			}
			blockTimestamps[l.BlockNumber] = ts
		}
		withdrawal.BlockTimestamp = ts
		if err := t.repo.InsertL3Withdrawal(ctx, withdrawal); err != nil {
			return false, err
		}
		t.metrics.L3WithdrawalsIndexed.Inc()
	}

	if err := t.repo.UpdateL3ChainProgress(ctx, t.chainID, domain.BlockNumber(to), domain.BlockNumber(head)); err != nil {
		return false, err
	}
	return true, nil
}

func (t *chainTask) fetchMessagePassedLogs(ctx context.Context, from, to uint64) ([]ethtypes.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []ethcommon.Address{ethcommon.Address(domain.L2ToL1MessagePasserAddress)},
	}
	return t.client.FilterLogs(ctx, query)
}
