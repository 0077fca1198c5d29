package domain

import "time"

// EntityStatus is the lifecycle state of an entity's current projection.
type EntityStatus string

const (
	StatusActive  EntityStatus = "active"
	StatusDeleted EntityStatus = "deleted"
	StatusExpired EntityStatus = "expired"
)

// Entity is the derived current-state projection for one entity_key.
// Invariants: Status == StatusDeleted or StatusExpired implies Data == nil;
// CreatedAtTxHash is set once by Create and never changes thereafter.
type Entity struct {
	EntityKey            Hash32       `db:"entity_key"`
	Data                 []byte       `db:"data"`
	Status               EntityStatus `db:"status"`
	Owner                *Address     `db:"owner"`
	CreatedAtTxHash      *Hash32      `db:"created_at_tx_hash"`
	LastUpdatedAtTxHash  Hash32       `db:"last_updated_at_tx_hash"`
	ExpiresAtBlockNumber *BlockNumber `db:"expires_at_block_number"`
	ContentType          *string      `db:"content_type"`
}

// FullEntity is Entity enriched with the audit-trail fields the read side
// would otherwise have to re-derive by joining entity_history. It is the
// projection RefreshEntityBasedOnHistory writes from.
type FullEntity struct {
	Entity

	CreatedAtOperationIndex uint64      `db:"created_at_operation_index"`
	CreatedAtBlockNumber    BlockNumber `db:"created_at_block_number"`
	CreatedAtTimestamp      time.Time   `db:"created_at_timestamp"`

	UpdatedAtOperationIndex uint64      `db:"updated_at_operation_index"`
	UpdatedAtBlockNumber    BlockNumber `db:"updated_at_block_number"`
	UpdatedAtTimestamp      time.Time   `db:"updated_at_timestamp"`

	// Creator is the sender of the Create operation, distinct from Owner
	// once a ChangeOwner has run.
	Creator Address `db:"creator"`
}
