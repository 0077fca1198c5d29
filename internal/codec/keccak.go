// Package codec implements the indexer's pure, side-effect-free
// transformations: ABI decoding of storage-transaction calldata and bridge
// event payloads, canonical hashing, and block-time projection.
package codec

import "golang.org/x/crypto/sha3"

// keccak256 hashes the concatenation of buf against the Keccak-256
// permutation (not NIST SHA3-256 — Ethereum's original, pre-standardization
// padding).
func keccak256(buf ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range buf {
		h.Write(b)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// leftPad32 renders v as a big-endian 32-byte word, the ABI encoding of a
// uint256.
func leftPad32(v uint64) []byte {
	var buf [32]byte
	buf[31] = byte(v)
	buf[30] = byte(v >> 8)
	buf[29] = byte(v >> 16)
	buf[28] = byte(v >> 24)
	buf[27] = byte(v >> 32)
	buf[26] = byte(v >> 40)
	buf[25] = byte(v >> 48)
	buf[24] = byte(v >> 56)
	return buf[:]
}
