package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash32_ScanAndValue(t *testing.T) {
	want := Hash32{0x01, 0x02, 0x03}
	raw, err := want.Value()
	require.NoError(t, err)

	var got Hash32
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, want, got)
}

func TestHash32_Scan_WrongLength(t *testing.T) {
	var h Hash32
	assert.Error(t, h.Scan([]byte{0x01, 0x02}))
}

func TestHash32_String(t *testing.T) {
	h := Hash32{0xde, 0xad, 0xbe, 0xef}
	assert.Equal(t, "0xdeadbeef0000000000000000000000000000000000000000000000000000", h.String())
}

func TestAddress_ScanAndValue(t *testing.T) {
	want := Address{0xaa, 0xbb}
	raw, err := want.Value()
	require.NoError(t, err)

	var got Address
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, want, got)
}

func TestAddress_IsZero(t *testing.T) {
	var a Address
	assert.True(t, a.IsZero())
	a[0] = 1
	assert.False(t, a.IsZero())
}

func TestCurrencyAmount_SaturatingAdd(t *testing.T) {
	a := NewCurrencyAmount(big.NewInt(10))
	b := NewCurrencyAmount(big.NewInt(32))
	sum := a.SaturatingAdd(b)
	assert.Equal(t, "42", sum.String())
}

func TestCurrencyAmount_ZeroPlusNil(t *testing.T) {
	zero := ZeroCurrencyAmount()
	var empty CurrencyAmount
	sum := zero.SaturatingAdd(empty)
	assert.Equal(t, "0", sum.String())
}

func TestCurrencyAmount_ScanAndValue(t *testing.T) {
	c := NewCurrencyAmount(big.NewInt(123456789))
	raw, err := c.Value()
	require.NoError(t, err)

	var got CurrencyAmount
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, "123456789", got.String())
}

func TestCurrencyAmount_Scan_Invalid(t *testing.T) {
	var c CurrencyAmount
	assert.Error(t, c.Scan("not-a-number"))
}

func TestWellKnownConstants_Length(t *testing.T) {
	assert.Len(t, StorageProcessorAddress, 20)
	assert.Len(t, L1BlockAddress, 20)
	assert.Len(t, L2ToL1MessagePasserAddress, 20)
	assert.Len(t, EntityDeletedTopic, 32)
	assert.Len(t, EntityBTLExtendedTopic, 32)
}

func TestWellKnownConstants_Distinct(t *testing.T) {
	assert.NotEqual(t, L1BlockAddress, L2ToL1MessagePasserAddress)
	assert.NotEqual(t, EntityDeletedTopic, EntityBTLExtendedTopic)
}
