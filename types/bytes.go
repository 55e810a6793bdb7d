package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidHex = errors.New("invalid hex string")

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}

	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)

	return
}

// StringToBytes decodes a hex string, ignoring malformed input
func StringToBytes(str string) []byte {
	b, _ := ParseHexBytes(str)

	return b
}

// ParseHexBytes decodes an optionally 0x-prefixed hex string.
// Odd-length input is left padded with a zero nibble.
func ParseHexBytes(str string) ([]byte, error) {
	str = strings.TrimPrefix(str, "0x")
	if len(str)%2 == 1 {
		str = "0" + str
	}

	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHex, err.Error())
	}

	return b, nil
}

// TrimLeftZeroes returns a subslice of s without leading zeroes
func TrimLeftZeroes(s []byte) []byte {
	idx := 0
	for ; idx < len(s); idx++ {
		if s[idx] != 0 {
			break
		}
	}

	return s[idx:]
}

// leftPad copies b into a buffer of the given size, right aligned
func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}

	padded := make([]byte, size)
	copy(padded[size-len(b):], b)

	return padded
}
