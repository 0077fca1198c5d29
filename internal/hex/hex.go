// Package hex provides 0x-prefixed hex string handling for well-known byte
// constants and their string rendering.
package hex

import (
	"encoding/hex"
	"strings"
)

// TrimPrefix removes a "0x" or "0X" prefix from a hex string if present.
func TrimPrefix(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "0x")
	value = strings.TrimPrefix(value, "0X")
	return value
}

// MustDecodeString decodes a hex string to bytes, panicking on error. Use
// this only for constants known to be valid at compile time.
func MustDecodeString(value string) []byte {
	result, err := hex.DecodeString(TrimPrefix(value))
	if err != nil {
		panic("hex: invalid hex string: " + err.Error())
	}
	return result
}

// EncodeWithPrefix converts bytes to a hex string with a "0x" prefix.
func EncodeWithPrefix(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}
