package domain

import "time"

// HistoryEntry is a per-operation, per-entity snapshot of derived state.
// Primary key (TxHash, OpIndex). Prev* fields are value copies of the
// immediately preceding entry for the same entity_key, not back-pointers:
// history is an append-only log, never mutated after insertion.
type HistoryEntry struct {
	TxHash      Hash32        `db:"tx_hash"`
	OpIndex     uint64        `db:"op_index"`
	EntityKey   Hash32        `db:"entity_key"`
	Kind        OperationKind `db:"kind"`
	BlockHash   Hash32        `db:"block_hash"`
	BlockNumber BlockNumber   `db:"block_number"`
	TxIndex     uint32        `db:"tx_index"`

	Owner     *Address `db:"owner"`
	PrevOwner *Address `db:"prev_owner"`

	Data     []byte `db:"data"`
	PrevData []byte `db:"prev_data"`

	Status     EntityStatus  `db:"status"`
	PrevStatus *EntityStatus `db:"prev_status"`

	ExpiresAtBlockNumber     *BlockNumber `db:"expires_at_block_number"`
	PrevExpiresAtBlockNumber *BlockNumber `db:"prev_expires_at_block_number"`
	ExpiresAtTimestamp       *time.Time   `db:"expires_at_timestamp"`
	PrevExpiresAtTimestamp   *time.Time   `db:"prev_expires_at_timestamp"`

	BTL *uint64 `db:"btl"`

	ContentType     *string `db:"content_type"`
	PrevContentType *string `db:"prev_content_type"`

	Cost      *CurrencyAmount `db:"cost"`
	TotalCost CurrencyAmount  `db:"total_cost"`
}

// AnnotationIndex identifies the operation whose annotations are currently
// active for an entity.
type AnnotationIndex struct {
	TxHash  Hash32 `db:"tx_hash"`
	OpIndex uint64 `db:"op_index"`
}
