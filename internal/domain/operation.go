package domain

import "fmt"

// OperationKind identifies which of the five storage operations a row
// represents.
type OperationKind string

const (
	OpCreate      OperationKind = "create"
	OpUpdate      OperationKind = "update"
	OpDelete      OperationKind = "delete"
	OpExtend      OperationKind = "extend"
	OpChangeOwner OperationKind = "change_owner"
)

// Operation is an immutable record of one storage operation within a tx.
// Primary key (TxHash, OpIndex).
type Operation struct {
	TxHash      Hash32          `db:"tx_hash"`
	OpIndex     uint64          `db:"op_index"`
	EntityKey   Hash32          `db:"entity_key"`
	Sender      Address         `db:"sender"`
	Recipient   Address         `db:"recipient"`
	Kind        OperationKind   `db:"kind"`
	Data        []byte          `db:"data"`
	BTL         *uint64         `db:"btl"`
	NewOwner    *Address        `db:"new_owner"`
	ContentType *string         `db:"content_type"`
	BlockHash   Hash32          `db:"block_hash"`
	BlockNumber BlockNumber     `db:"block_number"`
	TxIndex     uint32          `db:"tx_index"`
	Cost        *CurrencyAmount `db:"cost"`
}

// Validate enforces the per-kind field constraints of spec.md §3: Create and
// Update require Data, BTL, and ContentType and forbid NewOwner; Delete
// carries none of those optional fields; Extend requires only BTL;
// ChangeOwner requires only NewOwner.
func (op Operation) Validate() error {
	switch op.Kind {
	case OpCreate, OpUpdate:
		if op.Data == nil {
			return fmt.Errorf("domain: %s operation requires data", op.Kind)
		}
		if op.BTL == nil {
			return fmt.Errorf("domain: %s operation requires btl", op.Kind)
		}
		if op.ContentType == nil {
			return fmt.Errorf("domain: %s operation requires content_type", op.Kind)
		}
		if op.NewOwner != nil {
			return fmt.Errorf("domain: %s operation must not carry new_owner", op.Kind)
		}
	case OpDelete:
		if op.Data != nil || op.BTL != nil || op.ContentType != nil || op.NewOwner != nil {
			return fmt.Errorf("domain: delete operation must carry no optional fields")
		}
	case OpExtend:
		if op.BTL == nil {
			return fmt.Errorf("domain: extend operation requires btl")
		}
		if op.Data != nil || op.ContentType != nil || op.NewOwner != nil {
			return fmt.Errorf("domain: extend operation must carry only btl")
		}
	case OpChangeOwner:
		if op.NewOwner == nil {
			return fmt.Errorf("domain: change_owner operation requires new_owner")
		}
		if op.Data != nil || op.BTL != nil || op.ContentType != nil {
			return fmt.Errorf("domain: change_owner operation must carry only new_owner")
		}
	default:
		return fmt.Errorf("domain: unknown operation kind %q", op.Kind)
	}
	return nil
}

// IsHousekeepingDelete reports whether op is a Delete whose recipient is the
// storage-processor housekeeping contract or the L1Block system contract —
// the branch that produces EntityStatus Expired rather than Deleted.
func (op Operation) IsHousekeepingDelete() bool {
	return op.Kind == OpDelete && (op.Recipient == StorageProcessorAddress || op.Recipient == L1BlockAddress)
}

// StorageTx is the decoded, ordered bundle of operations carried by a single
// storage-transaction's calldata.
type StorageTx struct {
	Creates      []CreateOp
	Updates      []UpdateOp
	Deletes      []DeleteOp
	Extends      []ExtendOp
	ChangeOwners []ChangeOwnerOp
}

// AnnotationInput is a decoded (key, value) pair carried inline with a
// Create or Update entry, materialized into string_annotations or
// numeric_annotations rows once the entity_key is known.
type AnnotationInput struct {
	Key   string
	Value string
}

// NumericAnnotationInput is AnnotationInput with a u64 value.
type NumericAnnotationInput struct {
	Key   string
	Value uint64
}

// CreateOp is a decoded Create entry: the entity_key is not yet known, it is
// derived from (tx hash, Data, position within the batch) via
// codec.EntityKey.
type CreateOp struct {
	Data                []byte
	BTL                 uint64
	ContentType         string
	StringAnnotations   []AnnotationInput
	NumericAnnotations  []NumericAnnotationInput
}

// UpdateOp is a decoded Update entry.
type UpdateOp struct {
	EntityKey          Hash32
	Data               []byte
	BTL                uint64
	ContentType        string
	StringAnnotations  []AnnotationInput
	NumericAnnotations []NumericAnnotationInput
}

// DeleteOp is a decoded Delete entry.
type DeleteOp struct {
	EntityKey Hash32
}

// ExtendOp is a decoded Extend entry.
type ExtendOp struct {
	EntityKey Hash32
	BTL       uint64
}

// ChangeOwnerOp is a decoded ChangeOwner entry.
type ChangeOwnerOp struct {
	EntityKey Hash32
	NewOwner  Address
}
