// Package domain holds the indexer's core value types: addresses, hashes,
// entities, operations, history entries, and annotations, plus the
// well-known on-chain constants the indexer decodes against.
package domain

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"time"

	"github.com/arkiv-network/indexer/internal/hex"
)

// Address is a 20-byte account or contract identifier.
type Address [20]byte

// Hash32 is a 32-byte identifier: block hash, tx hash, entity key, event
// topic, or source hash.
type Hash32 [32]byte

// BlockNumber is an unsigned block height.
type BlockNumber uint64

// String renders a as lowercase 0x-prefixed hex.
func (a Address) String() string {
	return hex.EncodeWithPrefix(a[:])
}

// Bytes returns a's underlying bytes.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Scan implements sql.Scanner for BYTEA columns.
func (a *Address) Scan(src interface{}) error {
	b, err := scanBytes(src)
	if err != nil {
		return err
	}
	if len(b) != len(a) {
		return fmt.Errorf("domain: Address.Scan: expected %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return nil
}

// Value implements driver.Valuer for BYTEA columns.
func (a Address) Value() (driver.Value, error) {
	return a[:], nil
}

// MarshalText implements encoding.TextMarshaler as 0x-prefixed hex.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// String renders h as lowercase 0x-prefixed hex.
func (h Hash32) String() string {
	return hex.EncodeWithPrefix(h[:])
}

// Bytes returns h's underlying bytes.
func (h Hash32) Bytes() []byte {
	return h[:]
}

// IsZero reports whether h is the zero hash.
func (h Hash32) IsZero() bool {
	return h == Hash32{}
}

// Scan implements sql.Scanner for BYTEA columns.
func (h *Hash32) Scan(src interface{}) error {
	b, err := scanBytes(src)
	if err != nil {
		return err
	}
	if len(b) != len(h) {
		return fmt.Errorf("domain: Hash32.Scan: expected %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return nil
}

// Value implements driver.Valuer for BYTEA columns.
func (h Hash32) Value() (driver.Value, error) {
	return h[:], nil
}

// MarshalText implements encoding.TextMarshaler as 0x-prefixed hex.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func scanBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, fmt.Errorf("domain: cannot scan NULL into fixed-width byte array")
	default:
		return nil, fmt.Errorf("domain: unsupported scan source %T", src)
	}
}

// CurrencyAmount wraps an unsigned 256-bit integer with saturating helpers,
// used for operation cost and running total cost.
type CurrencyAmount struct {
	*big.Int
}

// ZeroCurrencyAmount returns a CurrencyAmount of value 0.
func ZeroCurrencyAmount() CurrencyAmount {
	return CurrencyAmount{big.NewInt(0)}
}

// NewCurrencyAmount wraps v as a CurrencyAmount.
func NewCurrencyAmount(v *big.Int) CurrencyAmount {
	if v == nil {
		return ZeroCurrencyAmount()
	}
	return CurrencyAmount{new(big.Int).Set(v)}
}

// SaturatingAdd returns a+b, the sum of two CurrencyAmounts, capped at the
// uint256 maximum 2^256-1. Neither operand's backing big.Int is mutated.
func (a CurrencyAmount) SaturatingAdd(b CurrencyAmount) CurrencyAmount {
	av := a.Int
	bv := b.Int
	if av == nil {
		av = big.NewInt(0)
	}
	if bv == nil {
		bv = big.NewInt(0)
	}
	sum := new(big.Int).Add(av, bv)
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	if sum.Cmp(maxU256) > 0 {
		return CurrencyAmount{maxU256}
	}
	return CurrencyAmount{sum}
}

// Value implements driver.Valuer, encoding as a decimal string for NUMERIC
// columns.
func (a CurrencyAmount) Value() (driver.Value, error) {
	if a.Int == nil {
		return "0", nil
	}
	return a.Int.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *CurrencyAmount) Scan(src interface{}) error {
	if src == nil {
		a.Int = big.NewInt(0)
		return nil
	}
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("domain: CurrencyAmount.Scan: unsupported source %T", src)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("domain: CurrencyAmount.Scan: invalid decimal %q", s)
	}
	a.Int = n
	return nil
}

// BlockTime is the canonical UTC timestamp of a block.
type BlockTime = time.Time
