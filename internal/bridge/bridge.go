// Package bridge decodes and persists L2-side bridge events — deposits
// proven by L1 and withdrawals proven/finalized back to it — carried in the
// same pending_log_events queue phase 4 of the tick protocol drains for
// cost-enrichment logs. HandleLog is the dispatch point: it recognizes only
// the three OptimismPortal signatures this package understands and leaves
// everything else for the caller's own (cost-enrichment) handling, so the
// two concerns can share one queue and one drain pass without double-owning
// a row.
package bridge

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
	"github.com/arkiv-network/indexer/internal/repository"
)

// HandleLog decodes and persists logRow if its first topic matches a known
// bridge-event signature, reporting handled=true so the caller can ack the
// queue row without falling through to any other interpretation. handled is
// false, err nil when the log belongs to some other consumer.
func HandleLog(ctx context.Context, tx *sqlx.Tx, repo *repository.Repository, logRow domain.Log) (handled bool, err error) {
	if logRow.FirstTopic == nil {
		return false, nil
	}

	switch *logRow.FirstTopic {
	case domain.TransactionDepositedTopic:
		return true, handleDeposit(ctx, tx, repo, logRow)
	case domain.WithdrawalProvenTopic:
		return true, handleWithdrawalProven(ctx, tx, repo, logRow)
	case domain.WithdrawalFinalizedTopic:
		return true, handleWithdrawalFinalized(ctx, tx, repo, logRow)
	default:
		return false, nil
	}
}

// handleDeposit decodes a TransactionDeposited log. from/to are the second
// and third topics (indexed event args); a deposit missing either topic is
// malformed and skipped rather than failing the whole phase.
func handleDeposit(ctx context.Context, tx *sqlx.Tx, repo *repository.Repository, logRow domain.Log) error {
	if logRow.SecondTopic == nil || logRow.ThirdTopic == nil {
		return indexererrors.New(indexererrors.MalformedInput, "TransactionDeposited log missing from/to topic")
	}
	from := codec.AddressFromHash32(*logRow.SecondTopic)
	to := codec.AddressFromHash32(*logRow.ThirdTopic)

	deposit, err := codec.DecodeDepositV0(logRow.TxHash, logRow.BlockHash, logRow.Index, logRow.BlockNumber, from, to, logRow.Data)
	if err != nil {
		return err
	}
	return repo.InsertDepositV0(ctx, tx, deposit)
}

// handleWithdrawalProven decodes a WithdrawalProven log: withdrawalHash is
// the first non-signature topic, from/to the second and third.
func handleWithdrawalProven(ctx context.Context, tx *sqlx.Tx, repo *repository.Repository, logRow domain.Log) error {
	if logRow.SecondTopic == nil || logRow.ThirdTopic == nil || logRow.FourthTopic == nil {
		return indexererrors.New(indexererrors.MalformedInput, "WithdrawalProven log missing indexed topic")
	}
	withdrawalHash := *logRow.SecondTopic
	from := codec.AddressFromHash32(*logRow.ThirdTopic)
	to := codec.AddressFromHash32(*logRow.FourthTopic)

	evt := codec.DecodeWithdrawalProven(logRow.TxHash, logRow.BlockHash, logRow.Index, logRow.BlockNumber, withdrawalHash, from, to)
	return repo.InsertWithdrawalProven(ctx, tx, evt)
}

// handleWithdrawalFinalized decodes a WithdrawalFinalized log: withdrawalHash
// is the indexed topic, success the sole non-indexed data field.
func handleWithdrawalFinalized(ctx context.Context, tx *sqlx.Tx, repo *repository.Repository, logRow domain.Log) error {
	if logRow.SecondTopic == nil {
		return indexererrors.New(indexererrors.MalformedInput, "WithdrawalFinalized log missing withdrawal_hash topic")
	}
	evt, err := codec.DecodeWithdrawalFinalized(logRow.TxHash, logRow.BlockHash, logRow.Index, logRow.BlockNumber, *logRow.SecondTopic, logRow.Data)
	if err != nil {
		return err
	}
	return repo.InsertWithdrawalFinalized(ctx, tx, evt)
}
