package indexer

import (
	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
)

// buildHistoryEntry derives the history row for op given the entity's prior
// history entry (prev, the zero value with ok=false for a Create that starts
// a fresh lifecycle). It implements the field-derivation table: status,
// owner, data, expiry, content type, and running total cost each follow
// their own per-kind rule rather than a single shared formula. ref is the
// current consensus block used to project ExpiresAtBlockNumber into a
// wall-clock ExpiresAtTimestamp; refOK is false when no consensus block is
// known yet, in which case the timestamp fields are left nil.
func buildHistoryEntry(op domain.Operation, prev domain.HistoryEntry, prevOK bool, ref domain.Block, refOK bool) domain.HistoryEntry {
	h := domain.HistoryEntry{
		TxHash:      op.TxHash,
		OpIndex:     op.OpIndex,
		EntityKey:   op.EntityKey,
		Kind:        op.Kind,
		BlockHash:   op.BlockHash,
		BlockNumber: op.BlockNumber,
		TxIndex:     op.TxIndex,
		BTL:         op.BTL,
		Cost:        op.Cost,
	}

	if prevOK {
		h.PrevOwner = prev.Owner
		h.PrevData = prev.Data
		h.PrevStatus = &prev.Status
		h.PrevExpiresAtBlockNumber = prev.ExpiresAtBlockNumber
		h.PrevExpiresAtTimestamp = prev.ExpiresAtTimestamp
		h.PrevContentType = prev.ContentType
	}

	h.Status = deriveStatus(op, prevOK)
	h.Owner = deriveOwner(op, prev, prevOK)
	h.Data = deriveData(op, prev)
	h.ExpiresAtBlockNumber = deriveExpiresAtBlockNumber(op, prev, prevOK)
	h.ContentType = deriveContentType(op, prev)

	if refOK && h.ExpiresAtBlockNumber != nil {
		if ts, ok := codec.BlockTimestamp(*h.ExpiresAtBlockNumber, ref.Number, ref.Timestamp); ok {
			h.ExpiresAtTimestamp = &ts
		}
	}

	prevTotal := domain.ZeroCurrencyAmount()
	if prevOK {
		prevTotal = prev.TotalCost
	}
	opCost := domain.ZeroCurrencyAmount()
	if op.Cost != nil {
		opCost = *op.Cost
	}
	h.TotalCost = prevTotal.SaturatingAdd(opCost)

	return h
}

// deriveStatus: Expired for a housekeeping Delete, Deleted for any other
// Delete, Active otherwise (including a re-Create after a terminal state).
func deriveStatus(op domain.Operation, prevOK bool) domain.EntityStatus {
	if op.Kind == domain.OpDelete {
		if op.IsHousekeepingDelete() {
			return domain.StatusExpired
		}
		return domain.StatusDeleted
	}
	return domain.StatusActive
}

// deriveOwner: the prior owner survives a housekeeping Delete; ChangeOwner
// sets the new owner; every other kind sets the sender as owner (Create
// establishes it, Update/Extend reaffirm it).
func deriveOwner(op domain.Operation, prev domain.HistoryEntry, prevOK bool) *Address {
	if op.Kind == domain.OpDelete && op.IsHousekeepingDelete() && prevOK {
		return prev.Owner
	}
	if op.Kind == domain.OpChangeOwner {
		return op.NewOwner
	}
	sender := op.Sender
	return &sender
}

// Address is an alias so deriveOwner's signature reads naturally; it is
// exactly domain.Address.
type Address = domain.Address

// deriveData: Extend and ChangeOwner inherit the prior payload unchanged;
// Delete clears it; Create and Update set it from the operation.
func deriveData(op domain.Operation, prev domain.HistoryEntry) []byte {
	switch op.Kind {
	case domain.OpExtend, domain.OpChangeOwner:
		return prev.Data
	case domain.OpDelete:
		return nil
	default:
		return op.Data
	}
}

// deriveExpiresAtBlockNumber: Create/Update set it to block_number+btl;
// Extend adds btl to the prior expiry (nil stays nil — an entity created
// without a BTL can never be extended into one); Delete sets it to the
// block the delete landed in; ChangeOwner inherits the prior value
// unchanged.
func deriveExpiresAtBlockNumber(op domain.Operation, prev domain.HistoryEntry, prevOK bool) *domain.BlockNumber {
	switch op.Kind {
	case domain.OpCreate, domain.OpUpdate:
		if op.BTL == nil {
			return nil
		}
		exp := op.BlockNumber + domain.BlockNumber(*op.BTL)
		return &exp
	case domain.OpExtend:
		if !prevOK || prev.ExpiresAtBlockNumber == nil || op.BTL == nil {
			return nil
		}
		exp := *prev.ExpiresAtBlockNumber + domain.BlockNumber(*op.BTL)
		return &exp
	case domain.OpDelete:
		bn := op.BlockNumber
		return &bn
	case domain.OpChangeOwner:
		if prevOK {
			return prev.ExpiresAtBlockNumber
		}
		return nil
	default:
		return nil
	}
}

// deriveContentType: Extend and ChangeOwner inherit it, Delete clears it,
// Create/Update set it fresh.
func deriveContentType(op domain.Operation, prev domain.HistoryEntry) *string {
	switch op.Kind {
	case domain.OpExtend, domain.OpChangeOwner:
		return prev.ContentType
	case domain.OpDelete:
		return nil
	default:
		return op.ContentType
	}
}
