package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-network/indexer/internal/codec"
	"github.com/arkiv-network/indexer/internal/domain"
)

func TestBuildOperations_OrderAndOpIndex(t *testing.T) {
	record := domain.Tx{
		Hash:        domain.Hash32{0x01},
		FromAddress: addr(0x10),
		BlockHash:   domain.Hash32{0x02},
		BlockNumber: 100,
		Index:       3,
	}
	decoded := domain.StorageTx{
		Creates:      []domain.CreateOp{{Data: []byte("a"), BTL: 10, ContentType: "text/plain"}},
		Deletes:      []domain.DeleteOp{{EntityKey: domain.Hash32{0x11}}},
		Updates:      []domain.UpdateOp{{EntityKey: domain.Hash32{0x12}, Data: []byte("b"), BTL: 20, ContentType: "text/plain"}},
		Extends:      []domain.ExtendOp{{EntityKey: domain.Hash32{0x13}, BTL: 30}},
		ChangeOwners: []domain.ChangeOwnerOp{{EntityKey: domain.Hash32{0x14}, NewOwner: addr(0x20)}},
	}

	ops, _, _ := buildOperations(record, decoded)
	require.Len(t, ops, 5)

	assert.Equal(t, domain.OpCreate, ops[0].Kind)
	assert.Equal(t, uint64(0), ops[0].OpIndex)
	assert.Equal(t, codec.EntityKey(record.Hash, []byte("a"), 0), ops[0].EntityKey)

	assert.Equal(t, domain.OpDelete, ops[1].Kind)
	assert.Equal(t, uint64(1), ops[1].OpIndex)

	assert.Equal(t, domain.OpUpdate, ops[2].Kind)
	assert.Equal(t, uint64(2), ops[2].OpIndex)

	assert.Equal(t, domain.OpExtend, ops[3].Kind)
	assert.Equal(t, uint64(3), ops[3].OpIndex)

	assert.Equal(t, domain.OpChangeOwner, ops[4].Kind)
	assert.Equal(t, uint64(4), ops[4].OpIndex)

	for _, op := range ops {
		assert.Equal(t, record.Hash, op.TxHash)
		assert.Equal(t, record.FromAddress, op.Sender)
		assert.Equal(t, record.BlockNumber, op.BlockNumber)
	}
}

func TestBuildOperations_InlineAnnotations(t *testing.T) {
	record := domain.Tx{Hash: domain.Hash32{0x01}, FromAddress: addr(0x10), BlockNumber: 5}
	decoded := domain.StorageTx{
		Creates: []domain.CreateOp{{
			Data: []byte("a"), BTL: 10, ContentType: "text/plain",
			StringAnnotations:  []domain.AnnotationInput{{Key: "name", Value: "widget"}},
			NumericAnnotations: []domain.NumericAnnotationInput{{Key: "weight", Value: 42}},
		}},
	}

	ops, strAnns, numAnns := buildOperations(record, decoded)
	require.Len(t, ops, 1)
	require.Len(t, strAnns, 1)
	require.Len(t, numAnns, 1)

	assert.Equal(t, ops[0].EntityKey, strAnns[0].EntityKey)
	assert.Equal(t, "name", strAnns[0].Key)
	assert.Equal(t, "widget", strAnns[0].Value)
	assert.False(t, strAnns[0].Active)

	assert.Equal(t, ops[0].EntityKey, numAnns[0].EntityKey)
	assert.Equal(t, uint64(42), numAnns[0].Value)
	assert.False(t, numAnns[0].Active)
}
