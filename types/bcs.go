package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

var ErrBCSDecode = errors.New("bcs decode error")

var (
	// ObjectIDType is 0x2::object::ID
	ObjectIDType = NewStructTag(FrameworkAddress, "object", "ID").TypeTag()
	// StringType is 0x1::string::String
	StringType = NewStructTag(Address(StdlibPackageID), "string", "String").TypeTag()
	// ASCIIStringType is 0x1::ascii::String
	ASCIIStringType = NewStructTag(Address(StdlibPackageID), "ascii", "String").TypeTag()
)

// EncodeULEB128 encodes n as an unsigned LEB128 varint
func EncodeULEB128(n uint64) []byte {
	var out []byte

	for {
		b := byte(n & 0x7f)
		n >>= 7

		if n == 0 {
			return append(out, b)
		}

		out = append(out, b|0x80)
	}
}

// DecodeULEB128 reads a varint and returns it with the bytes consumed
func DecodeULEB128(b []byte) (uint64, int, error) {
	var (
		n     uint64
		shift uint
	)

	for i, c := range b {
		if shift >= 64 {
			break
		}

		n |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return n, i + 1, nil
		}

		shift += 7
	}

	return 0, 0, fmt.Errorf("%w: malformed uleb128", ErrBCSDecode)
}

// EncodeU64 is the BCS form of a u64
func EncodeU64(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)

	return b
}

// EncodeBCSBytes is the BCS form of a vector<u8> or string
func EncodeBCSBytes(b []byte) []byte {
	return append(EncodeULEB128(uint64(len(b))), b...)
}

var fixedSizes = map[TypeTag]int{
	"bool":    1,
	"u8":      1,
	"u16":     2,
	"u32":     4,
	"u64":     8,
	"u128":    16,
	"u256":    32,
	"address": AddressLength,
}

// DecodeBCSValue decodes the leading value of type tag from b, returning
// a printable form and the number of bytes consumed. Only primitives,
// addresses, ids, byte vectors and strings are understood.
func DecodeBCSValue(tag TypeTag, b []byte) (interface{}, int, error) {
	if size, ok := fixedSizes[tag]; ok {
		if len(b) < size {
			return nil, 0, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBCSDecode, tag, size, len(b))
		}

		return decodeFixedValue(tag, b[:size]), size, nil
	}

	switch tag {
	case ObjectIDType:
		if len(b) < AddressLength {
			return nil, 0, fmt.Errorf("%w: object id needs %d bytes", ErrBCSDecode, AddressLength)
		}

		return BytesToObjectID(b[:AddressLength]).String(), AddressLength, nil
	case "vector<u8>", StringType, ASCIIStringType:
		length, n, err := DecodeULEB128(b)
		if err != nil {
			return nil, 0, err
		}

		end := n + int(length)
		if length > uint64(len(b)) || end > len(b) {
			return nil, 0, fmt.Errorf("%w: %s length %d exceeds input", ErrBCSDecode, tag, length)
		}

		if tag == "vector<u8>" {
			return CopyBytes(b[n:end]), end, nil
		}

		return string(b[n:end]), end, nil
	}

	return nil, 0, fmt.Errorf("%w: unsupported type %s", ErrBCSDecode, tag)
}

func decodeFixedValue(tag TypeTag, b []byte) interface{} {
	switch tag {
	case "bool":
		return b[0] != 0
	case "u8":
		return uint64(b[0])
	case "u16":
		return uint64(binary.LittleEndian.Uint16(b))
	case "u32":
		return uint64(binary.LittleEndian.Uint32(b))
	case "u64":
		return strconv.FormatUint(binary.LittleEndian.Uint64(b), 10)
	case "address":
		return BytesToAddress(b).String()
	}

	// u128 and u256 are little endian, printed in decimal
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}

	return new(big.Int).SetBytes(be).String()
}
