package codec

import (
	"fmt"
	"time"

	"github.com/arkiv-network/indexer/internal/domain"
)

// EntityKey derives the key assigned to a newly created entity. It is the
// only way a Create operation's key ever comes into existence:
//
//	Keccak256(tx_hash ‖ payload ‖ big_endian_u256(create_op_index))
func EntityKey(txHash domain.Hash32, payload []byte, createOpIndex uint64) domain.Hash32 {
	return domain.Hash32(keccak256(txHash.Bytes(), payload, leftPad32(createOpIndex)))
}

// SourceHash derives the correlation key L1 uses to match a deposit
// transaction back to the TransactionDeposited log that minted it:
//
//	Keccak256(block_hash ‖ u256(log_index))
func SourceHash(blockHash domain.Hash32, logIndex uint64) domain.Hash32 {
	return domain.Hash32(keccak256(blockHash.Bytes(), leftPad32(logIndex)))
}

// secsPerBlock mirrors domain.SecsPerBlock; kept local so BlockTimestamp can
// be unit tested against an explicit rate without importing test-only state.
const secsPerBlock = domain.SecsPerBlock

// BlockTimestamp linearly extrapolates the wall-clock time of `target` from
// a reference block, given the chain's fixed block time. It saturates: a
// delta that would overflow the representable range reports ok=false rather
// than wrapping or panicking.
func BlockTimestamp(target, refNumber domain.BlockNumber, refTime time.Time) (result time.Time, ok bool) {
	sec, ok := BlockTimestampSec(target, refNumber, refTime)
	if !ok || sec > uint64(1<<63-1) {
		return time.Time{}, false
	}
	return time.Unix(int64(sec), 0).UTC(), true
}

// BlockTimestampSec is BlockTimestamp expressed in Unix seconds, matching
// the original implementation's representation. It returns ok=false only on
// genuine overflow of the representable range (e.g. target == MaxUint64).
func BlockTimestampSec(target, refNumber domain.BlockNumber, refTime time.Time) (sec uint64, ok bool) {
	refSec := uint64(refTime.Unix())

	if target >= refNumber {
		delta := uint64(target - refNumber)
		offset, overflow := mulOverflow(delta, uint64(secsPerBlock))
		if overflow {
			return 0, false
		}
		result, overflow := addOverflow(refSec, offset)
		if overflow {
			return 0, false
		}
		return result, true
	}

	delta := uint64(refNumber - target)
	offset, overflow := mulOverflow(delta, uint64(secsPerBlock))
	if overflow {
		return 0, false
	}
	if offset > refSec {
		return 0, false
	}
	return refSec - offset, true
}

// Uint64FromHash32 interprets h as a big-endian uint256 and returns its
// low 64 bits, the layout a log topic carrying a small integer (such as an
// op_index) uses.
func Uint64FromHash32(h domain.Hash32) uint64 {
	var v uint64
	for _, b := range h[24:] {
		v = v<<8 | uint64(b)
	}
	return v
}

// AddressFromHash32 recovers an indexed `address` event argument from its
// topic encoding: left-padded to 32 bytes, the address is the low 20.
func AddressFromHash32(h domain.Hash32) domain.Address {
	var a domain.Address
	copy(a[:], h[12:])
	return a
}

func mulOverflow(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	result := a * b
	if result/b != a {
		return 0, true
	}
	return result, false
}

func addOverflow(a, b uint64) (uint64, bool) {
	result := a + b
	if result < a {
		return 0, true
	}
	return result, false
}

// FormatDuration renders d in the canonical "Xd Yh Zm Ws" form, dropping
// zero-valued units and rounding sub-second remainders down to zero. A
// duration of zero (or less than one second) renders as "0s".
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "0s"
	}

	days := total / 86400
	total %= 86400
	hours := total / 3600
	total %= 3600
	minutes := total / 60
	seconds := total % 60

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		out += spaced(out) + fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		out += spaced(out) + fmt.Sprintf("%dm", minutes)
	}
	if seconds > 0 {
		out += spaced(out) + fmt.Sprintf("%ds", seconds)
	}
	return out
}

func spaced(s string) string {
	if s == "" {
		return ""
	}
	return " "
}
