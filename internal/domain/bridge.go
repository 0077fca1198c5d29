package domain

import "time"

// DepositV0 is a decoded TransactionDeposited event (version 0 only; any
// other version is MalformedInput per spec.md §4.4).
type DepositV0 struct {
	TxHash      Hash32         `db:"tx_hash"`
	BlockHash   Hash32         `db:"block_hash"`
	LogIndex    uint32         `db:"log_index"`
	BlockNumber BlockNumber    `db:"block_number"`
	SourceHash  Hash32         `db:"source_hash"`
	From        Address        `db:"from_address"`
	To          Address        `db:"to_address"`
	Mint        CurrencyAmount `db:"mint"`
	Value       CurrencyAmount `db:"value"`
	GasLimit    uint64         `db:"gas_limit"`
	IsCreation  bool           `db:"is_creation"`
	Calldata    []byte         `db:"calldata"`
}

// WithdrawalProvenEvent is a decoded L2-side WithdrawalProven event.
type WithdrawalProvenEvent struct {
	TxHash         Hash32      `db:"tx_hash"`
	BlockHash      Hash32      `db:"block_hash"`
	LogIndex       uint32      `db:"log_index"`
	BlockNumber    BlockNumber `db:"block_number"`
	WithdrawalHash Hash32      `db:"withdrawal_hash"`
	From           Address     `db:"from_address"`
	To             Address     `db:"to_address"`
}

// WithdrawalFinalizedEvent is a decoded L2-side WithdrawalFinalized event.
type WithdrawalFinalizedEvent struct {
	TxHash         Hash32      `db:"tx_hash"`
	BlockHash      Hash32      `db:"block_hash"`
	LogIndex       uint32      `db:"log_index"`
	BlockNumber    BlockNumber `db:"block_number"`
	WithdrawalHash Hash32      `db:"withdrawal_hash"`
	Success        bool        `db:"success"`
}

// L3Deposit is an L3-side deposit harvested by the poller directly from an
// L3 deposit transaction (the L3 analogue of DepositV0).
type L3Deposit struct {
	ChainID        uint64      `db:"chain_id"`
	From           Address     `db:"from_address"`
	To             Address     `db:"to_address"`
	BlockNumber    BlockNumber `db:"block_number"`
	BlockHash      Hash32      `db:"block_hash"`
	BlockTimestamp time.Time   `db:"block_timestamp"`
	TxHash         Hash32      `db:"tx_hash"`
	SourceHash     Hash32      `db:"source_hash"`
	Success        bool        `db:"success"`
}

// L3Withdrawal is an L3-side MessagePassed event harvested by the poller;
// WithdrawalHash is the correlation key joining it to the L2-side proven and
// finalized events.
type L3Withdrawal struct {
	ChainID        uint64         `db:"chain_id"`
	BlockNumber    BlockNumber    `db:"block_number"`
	BlockHash      Hash32         `db:"block_hash"`
	BlockTimestamp time.Time      `db:"block_timestamp"`
	TxHash         Hash32         `db:"tx_hash"`
	Nonce          CurrencyAmount `db:"nonce"`
	Sender         Address        `db:"sender"`
	Target         Address        `db:"target"`
	Value          CurrencyAmount `db:"value"`
	GasLimit       uint64         `db:"gas_limit"`
	Data           []byte         `db:"data"`
	WithdrawalHash Hash32         `db:"withdrawal_hash"`
}

// L3Chain is one row of the l3_chains configuration table the poller
// supervisor refreshes every L3RefreshInterval.
type L3Chain struct {
	ChainID          uint64      `db:"chain_id"`
	ChainName        string      `db:"chain_name"`
	RPCURL           string      `db:"rpc_url"`
	BatchSize        int         `db:"batch_size"`
	LastIndexedBlock BlockNumber `db:"last_indexed_block"`
	LatestBlock      BlockNumber `db:"latest_block"`
	Enabled          bool        `db:"enabled"`
}

// FullWithdrawal left-joins an L3 MessagePassed event with its L2-side
// proving and finalization, correlated by WithdrawalHash. The join itself is
// SQL behind the (out of scope) read API, but the repository layer exposes
// this projection so a future read-API package doesn't have to re-derive it.
type FullWithdrawal struct {
	L3Withdrawal
	Proven    *WithdrawalProvenEvent
	Finalized *WithdrawalFinalizedEvent
}
