package domain

import "time"

// Block mirrors the shape of the ingestion-owned blocks table. The indexer
// only ever reads these rows.
type Block struct {
	Hash      Hash32    `db:"hash"`
	Number    BlockNumber `db:"number"`
	Timestamp time.Time `db:"timestamp"`
	Consensus bool      `db:"consensus"`
}

// Tx mirrors the ingestion-owned transactions table, trimmed to the columns
// the indexer reads.
type Tx struct {
	Hash              Hash32         `db:"hash"`
	FromAddress       Address        `db:"from_address_hash"`
	ToAddress         *Address       `db:"to_address_hash"`
	BlockHash         Hash32         `db:"block_hash"`
	BlockNumber       BlockNumber    `db:"block_number"`
	BlockTimestamp    time.Time      `db:"block_timestamp"`
	Index             uint32         `db:"index"`
	Input             []byte         `db:"input"`
	Status            int16          `db:"status"`
	CumulativeGasUsed CurrencyAmount `db:"cumulative_gas_used"`
	GasPrice          CurrencyAmount `db:"gas_price"`
}

// Log mirrors the ingestion-owned logs table.
type Log struct {
	TxHash      Hash32      `db:"transaction_hash"`
	BlockHash   Hash32      `db:"block_hash"`
	Index       uint32      `db:"index"`
	AddressHash Address     `db:"address_hash"`
	FirstTopic  *Hash32     `db:"first_topic"`
	SecondTopic *Hash32     `db:"second_topic"`
	ThirdTopic  *Hash32     `db:"third_topic"`
	FourthTopic *Hash32     `db:"fourth_topic"`
	Data        []byte      `db:"data"`
	BlockNumber BlockNumber `db:"block_number"`
}
