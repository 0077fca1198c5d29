package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arkiv-network/indexer/internal/domain"
	indexererrors "github.com/arkiv-network/indexer/internal/errors"
)

// InsertDepositV0 upserts a decoded L2 TransactionDeposited row, keyed by
// (tx_hash, log_index) so a redelivered log is a no-op.
func (r *Repository) InsertDepositV0(ctx context.Context, tx *sqlx.Tx, d domain.DepositV0) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transaction_deposited_events_v0
			(tx_hash, block_hash, log_index, block_number, source_hash, from_address, to_address,
			 mint, value, gas_limit, is_creation, calldata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (tx_hash, log_index) DO NOTHING
	`, d.TxHash, d.BlockHash, d.LogIndex, d.BlockNumber, d.SourceHash, d.From, d.To,
		d.Mint, d.Value, d.GasLimit, d.IsCreation, d.Calldata)
	if err != nil {
		return indexererrors.TransientErr("insert deposit v0", err)
	}
	return nil
}

// InsertWithdrawalProven upserts a decoded WithdrawalProven row.
func (r *Repository) InsertWithdrawalProven(ctx context.Context, tx *sqlx.Tx, e domain.WithdrawalProvenEvent) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawal_proven_events
			(tx_hash, block_hash, log_index, block_number, withdrawal_hash, from_address, to_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (tx_hash, log_index) DO NOTHING
	`, e.TxHash, e.BlockHash, e.LogIndex, e.BlockNumber, e.WithdrawalHash, e.From, e.To)
	if err != nil {
		return indexererrors.TransientErr("insert withdrawal proven", err)
	}
	return nil
}

// InsertWithdrawalFinalized upserts a decoded WithdrawalFinalized row.
func (r *Repository) InsertWithdrawalFinalized(ctx context.Context, tx *sqlx.Tx, e domain.WithdrawalFinalizedEvent) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawal_finalized_events
			(tx_hash, block_hash, log_index, block_number, withdrawal_hash, success)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (tx_hash, log_index) DO NOTHING
	`, e.TxHash, e.BlockHash, e.LogIndex, e.BlockNumber, e.WithdrawalHash, e.Success)
	if err != nil {
		return indexererrors.TransientErr("insert withdrawal finalized", err)
	}
	return nil
}

// ListEnabledL3Chains returns every enabled row of l3_chains — the
// supervisor's per-15s refresh.
func (r *Repository) ListEnabledL3Chains(ctx context.Context) ([]domain.L3Chain, error) {
	var out []domain.L3Chain
	err := r.db.SelectContext(ctx, &out, `
		SELECT chain_id, chain_name, rpc_url, batch_size, last_indexed_block, latest_block, enabled
		FROM l3_chains WHERE enabled = true
	`)
	if err != nil {
		return nil, indexererrors.TransientErr("list enabled l3 chains", err)
	}
	return out, nil
}

// UpdateL3ChainProgress persists a chain's last_indexed_block and
// latest_block after a poller task completes a batch.
func (r *Repository) UpdateL3ChainProgress(ctx context.Context, chainID uint64, lastIndexed, latest domain.BlockNumber) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE l3_chains SET last_indexed_block = $2, latest_block = $3 WHERE chain_id = $1
	`, chainID, lastIndexed, latest)
	if err != nil {
		return indexererrors.TransientErr("update l3 chain progress", err)
	}
	return nil
}

// InsertL3Deposit upserts an L3-side deposit row.
func (r *Repository) InsertL3Deposit(ctx context.Context, d domain.L3Deposit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO l3_deposits
			(chain_id, from_address, to_address, block_number, block_hash, block_timestamp,
			 tx_hash, source_hash, success)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (chain_id, tx_hash) DO NOTHING
	`, d.ChainID, d.From, d.To, d.BlockNumber, d.BlockHash, d.BlockTimestamp, d.TxHash, d.SourceHash, d.Success)
	if err != nil {
		return indexererrors.TransientErr("insert l3 deposit", err)
	}
	return nil
}

// InsertL3Withdrawal upserts an L3-side MessagePassed row.
func (r *Repository) InsertL3Withdrawal(ctx context.Context, w domain.L3Withdrawal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO l3_withdrawals
			(chain_id, block_number, block_hash, block_timestamp, tx_hash, nonce, sender, target,
			 value, gas_limit, data, withdrawal_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (chain_id, withdrawal_hash) DO NOTHING
	`, w.ChainID, w.BlockNumber, w.BlockHash, w.BlockTimestamp, w.TxHash, w.Nonce, w.Sender, w.Target,
		w.Value, w.GasLimit, w.Data, w.WithdrawalHash)
	if err != nil {
		return indexererrors.TransientErr("insert l3 withdrawal", err)
	}
	return nil
}
