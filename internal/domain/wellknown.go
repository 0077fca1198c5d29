package domain

import "github.com/arkiv-network/indexer/internal/hex"

// Bit-exact well-known byte constants the decoder and extractors compare
// against, per spec.md §6.

// StorageProcessorAddress is the storage-processor/housekeeping contract
// address on the L3.
var StorageProcessorAddress = mustAddress("0x00000000000000000000000000000061726B6976")

// L1BlockAddress is the legacy L1-block/housekeeping predeploy address.
var L1BlockAddress = mustAddress("0x4200000000000000000000000000000000000015")

// L2ToL1MessagePasserAddress is the L2-to-L1 message passer predeploy
// address on the L3.
var L2ToL1MessagePasserAddress = mustAddress("0x4200000000000000000000000000000000000016")

// EntityDeletedTopic is the first-topic signature hash of the EntityDeleted
// event, emitted by the housekeeping contract on expiration.
var EntityDeletedTopic = mustHash32("0x749d62eff980a5016f4f357bd7eb8b65163f1e25bc400dcfc5e33f0e7910149e")

// EntityBTLExtendedTopic is the first-topic signature hash of the
// EntityBTLExtended event.
var EntityBTLExtendedTopic = mustHash32("0x0a5f98a4e3c7ac5f503e302ccd21b6132f04d51b89c5e02487c89ab3b7c6d60b")

// OperationCostSetTopic is the first-topic signature hash of the
// per-operation cost-enrichment event the storage processor emits once a
// storage transaction's gas cost has settled.
var OperationCostSetTopic = mustHash32("0xb1d2f7989f6ab5a796a863dc3cbbfde54a82f2ea867c98a79595a4b7c6cb25a9")

// TransactionDepositedTopic is the OptimismPortal TransactionDeposited
// event signature, emitted on L2 for every L1-initiated deposit.
var TransactionDepositedTopic = mustHash32("0x50697672cbcc0c812faee6f2b8a9be52e7c0f1f4ceb9950b2eb6604120448f1a")

// WithdrawalProvenTopic is the OptimismPortal WithdrawalProven event
// signature.
var WithdrawalProvenTopic = mustHash32("0x67a6208cfcc0801d50f6cbe764733f4fddf66ac0b04442061a8a8c0cb6b63f62")

// WithdrawalFinalizedTopic is the OptimismPortal WithdrawalFinalized event
// signature.
var WithdrawalFinalizedTopic = mustHash32("0x2a5349beaa5e18a77b80b0402159ee334e86e4bf6c0f0e4f0adf238a4895449d")

// SecsPerBlock is the L3's block production interval in seconds, used by
// BlockTimestamp/BlockTimestampSec to linearly extrapolate wall time from
// block number. Arkiv runs on an OP-stack derivative with a 2-second block
// time.
const SecsPerBlock int64 = 2

func mustAddress(hexStr string) Address {
	b := hex.MustDecodeString(hexStr)
	var a Address
	if len(b) != len(a) {
		panic("domain: wellknown address of wrong length: " + hexStr)
	}
	copy(a[:], b)
	return a
}

func mustHash32(hexStr string) Hash32 {
	b := hex.MustDecodeString(hexStr)
	var h Hash32
	if len(b) != len(h) {
		panic("domain: wellknown hash of wrong length: " + hexStr)
	}
	copy(h[:], b)
	return h
}
