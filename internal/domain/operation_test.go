package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func btlPtr(v uint64) *uint64        { return &v }
func contentTypePtr(s string) *string { return &s }

func TestOperation_Validate_Create(t *testing.T) {
	op := Operation{
		Kind:        OpCreate,
		Data:        []byte("payload"),
		BTL:         btlPtr(1000),
		ContentType: contentTypePtr("application/json"),
	}
	assert.NoError(t, op.Validate())
}

func TestOperation_Validate_CreateMissingData(t *testing.T) {
	op := Operation{Kind: OpCreate, BTL: btlPtr(1000), ContentType: contentTypePtr("x")}
	assert.Error(t, op.Validate())
}

func TestOperation_Validate_Delete(t *testing.T) {
	assert.NoError(t, Operation{Kind: OpDelete}.Validate())
}

func TestOperation_Validate_DeleteWithExtraFields(t *testing.T) {
	op := Operation{Kind: OpDelete, Data: []byte("x")}
	assert.Error(t, op.Validate())
}

func TestOperation_Validate_Extend(t *testing.T) {
	assert.NoError(t, Operation{Kind: OpExtend, BTL: btlPtr(500)}.Validate())
}

func TestOperation_Validate_ExtendMissingBTL(t *testing.T) {
	assert.Error(t, Operation{Kind: OpExtend}.Validate())
}

func TestOperation_Validate_ChangeOwner(t *testing.T) {
	owner := Address{0x01}
	assert.NoError(t, Operation{Kind: OpChangeOwner, NewOwner: &owner}.Validate())
}

func TestOperation_Validate_ChangeOwnerMissingOwner(t *testing.T) {
	assert.Error(t, Operation{Kind: OpChangeOwner}.Validate())
}

func TestOperation_Validate_UnknownKind(t *testing.T) {
	assert.Error(t, Operation{Kind: "bogus"}.Validate())
}

func TestOperation_IsHousekeepingDelete(t *testing.T) {
	op := Operation{Kind: OpDelete, Recipient: L1BlockAddress}
	assert.True(t, op.IsHousekeepingDelete())

	other := Operation{Kind: OpDelete, Recipient: Address{0x99}}
	assert.False(t, other.IsHousekeepingDelete())

	nonDelete := Operation{Kind: OpUpdate, Recipient: L1BlockAddress}
	assert.False(t, nonDelete.IsHousekeepingDelete())
}
