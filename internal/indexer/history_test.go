package indexer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-network/indexer/internal/domain"
)

func btl(v uint64) *uint64         { return &v }
func contentType(s string) *string { return &s }
func addr(b byte) domain.Address   { var a domain.Address; a[0] = b; return a }

// noRef/noRefOK stand in for an unknown consensus block: every test here
// asserts on ExpiresAtBlockNumber, not its wall-clock projection.
var noRef domain.Block

const noRefOK = false

func createOp(entityKey domain.Hash32, sender domain.Address, blockNumber domain.BlockNumber, btlVal uint64) domain.Operation {
	return domain.Operation{
		TxHash:      domain.Hash32{0x01},
		OpIndex:     0,
		EntityKey:   entityKey,
		Sender:      sender,
		Kind:        domain.OpCreate,
		Data:        []byte("hello"),
		BTL:         btl(btlVal),
		ContentType: contentType("text/plain"),
		BlockNumber: blockNumber,
	}
}

func TestBuildHistoryEntry_Create(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	op := createOp(key, sender, 100, 1000)

	h := buildHistoryEntry(op, domain.HistoryEntry{}, false, noRef, noRefOK)

	assert.Equal(t, domain.StatusActive, h.Status)
	require.NotNil(t, h.Owner)
	assert.Equal(t, sender, *h.Owner)
	assert.Equal(t, []byte("hello"), h.Data)
	require.NotNil(t, h.ExpiresAtBlockNumber)
	assert.Equal(t, domain.BlockNumber(1100), *h.ExpiresAtBlockNumber)
	assert.Nil(t, h.PrevOwner)
	assert.Nil(t, h.PrevStatus)
	assert.Equal(t, "0", h.TotalCost.String())
}

func TestBuildHistoryEntry_CreateThenUpdate(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	update := domain.Operation{
		TxHash:      domain.Hash32{0x02},
		OpIndex:     0,
		EntityKey:   key,
		Sender:      sender,
		Kind:        domain.OpUpdate,
		Data:        []byte("updated"),
		BTL:         btl(2000),
		ContentType: contentType("text/plain"),
		BlockNumber: 150,
	}
	h := buildHistoryEntry(update, created, true, noRef, noRefOK)

	assert.Equal(t, domain.StatusActive, h.Status)
	assert.Equal(t, []byte("updated"), h.Data)
	require.NotNil(t, h.ExpiresAtBlockNumber)
	assert.Equal(t, domain.BlockNumber(2150), *h.ExpiresAtBlockNumber)
	require.NotNil(t, h.PrevOwner)
	assert.Equal(t, sender, *h.PrevOwner)
	assert.Equal(t, []byte("hello"), h.PrevData)
}

func TestBuildHistoryEntry_Extend(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	extend := domain.Operation{
		TxHash:    domain.Hash32{0x02},
		EntityKey: key,
		Sender:    sender,
		Kind:      domain.OpExtend,
		BTL:       btl(500),
		BlockNumber: 200,
	}
	h := buildHistoryEntry(extend, created, true, noRef, noRefOK)

	assert.Equal(t, domain.StatusActive, h.Status)
	assert.Equal(t, []byte("hello"), h.Data)
	require.NotNil(t, h.ExpiresAtBlockNumber)
	assert.Equal(t, domain.BlockNumber(1600), *h.ExpiresAtBlockNumber)
	require.NotNil(t, h.ContentType)
	assert.Equal(t, "text/plain", *h.ContentType)
}

func TestBuildHistoryEntry_Expire_HousekeepingDelete(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	del := domain.Operation{
		TxHash:      domain.Hash32{0x02},
		EntityKey:   key,
		Sender:      domain.L1BlockAddress,
		Recipient:   domain.L1BlockAddress,
		Kind:        domain.OpDelete,
		BlockNumber: 1100,
	}
	h := buildHistoryEntry(del, created, true, noRef, noRefOK)

	assert.Equal(t, domain.StatusExpired, h.Status)
	assert.Nil(t, h.Data)
	require.NotNil(t, h.Owner)
	assert.Equal(t, sender, *h.Owner, "housekeeping expiry preserves the prior owner")
	require.NotNil(t, h.ExpiresAtBlockNumber)
	assert.Equal(t, domain.BlockNumber(1100), *h.ExpiresAtBlockNumber)
}

func TestBuildHistoryEntry_Delete_OtherRecipient(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	del := domain.Operation{
		TxHash:      domain.Hash32{0x02},
		EntityKey:   key,
		Sender:      sender,
		Recipient:   addr(0x99),
		Kind:        domain.OpDelete,
		BlockNumber: 120,
	}
	h := buildHistoryEntry(del, created, true, noRef, noRefOK)

	assert.Equal(t, domain.StatusDeleted, h.Status)
	assert.Nil(t, h.Data)
}

func TestBuildHistoryEntry_ChangeOwner(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	newOwner := addr(0x02)
	change := domain.Operation{
		TxHash:      domain.Hash32{0x02},
		EntityKey:   key,
		Sender:      sender,
		Kind:        domain.OpChangeOwner,
		NewOwner:    &newOwner,
		BlockNumber: 110,
	}
	h := buildHistoryEntry(change, created, true, noRef, noRefOK)

	assert.Equal(t, domain.StatusActive, h.Status)
	require.NotNil(t, h.Owner)
	assert.Equal(t, newOwner, *h.Owner)
	assert.Equal(t, []byte("hello"), h.Data, "ChangeOwner inherits prior data unchanged")
	require.NotNil(t, h.ExpiresAtBlockNumber)
	assert.Equal(t, domain.BlockNumber(1100), *h.ExpiresAtBlockNumber, "ChangeOwner inherits prior expiry unchanged")
}

func TestBuildHistoryEntry_ReCreateAfterExpiry(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	created := buildHistoryEntry(createOp(key, sender, 100, 1000), domain.HistoryEntry{}, false, noRef, noRefOK)

	del := domain.Operation{
		TxHash: domain.Hash32{0x02}, EntityKey: key, Sender: domain.L1BlockAddress,
		Recipient: domain.L1BlockAddress, Kind: domain.OpDelete, BlockNumber: 1100,
	}
	expired := buildHistoryEntry(del, created, true, noRef, noRefOK)
	assert.Equal(t, domain.StatusExpired, expired.Status)

	recreated := buildHistoryEntry(createOp(key, sender, 2000, 500), expired, true, noRef, noRefOK)
	assert.Equal(t, domain.StatusActive, recreated.Status, "a fresh Create always produces Active regardless of the terminal prior state")
}

func TestBuildHistoryEntry_TotalCostSaturatingAdd(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	createWithCost := createOp(key, sender, 100, 1000)
	cost1 := domain.NewCurrencyAmount(nil)
	cost1.Int.SetInt64(5)
	createWithCost.Cost = &cost1
	created := buildHistoryEntry(createWithCost, domain.HistoryEntry{}, false, noRef, noRefOK)
	assert.Equal(t, "5", created.TotalCost.String())

	update := domain.Operation{
		TxHash: domain.Hash32{0x02}, EntityKey: key, Sender: sender, Kind: domain.OpUpdate,
		Data: []byte("v2"), BTL: btl(100), ContentType: contentType("text/plain"), BlockNumber: 150,
	}
	cost2 := domain.NewCurrencyAmount(nil)
	cost2.Int.SetInt64(7)
	update.Cost = &cost2
	next := buildHistoryEntry(update, created, true, noRef, noRefOK)
	assert.Equal(t, "12", next.TotalCost.String())
}

func TestBuildHistoryEntry_ExpiresAtTimestampProjection(t *testing.T) {
	key := domain.Hash32{0xaa}
	sender := addr(0x01)
	op := createOp(key, sender, 100, 1000)

	ref := domain.Block{Number: 100, Timestamp: time.Unix(1_700_000_000, 0).UTC()}
	h := buildHistoryEntry(op, domain.HistoryEntry{}, false, ref, true)

	require.NotNil(t, h.ExpiresAtBlockNumber)
	require.NotNil(t, h.ExpiresAtTimestamp)
	want := ref.Timestamp.Add(time.Duration(1000*domain.SecsPerBlock) * time.Second)
	assert.True(t, h.ExpiresAtTimestamp.Equal(want))

	h2 := buildHistoryEntry(op, domain.HistoryEntry{}, false, noRef, noRefOK)
	assert.Nil(t, h2.ExpiresAtTimestamp, "no reference block means no timestamp projection")
}
