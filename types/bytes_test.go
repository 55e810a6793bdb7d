package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringToBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arr []byte
		exp []byte
	}{
		{StringToBytes("0x00ffff00ff0000"), []byte{0x00, 0xff, 0xff, 0x00, 0xff, 0x00, 0x00}},
		{StringToBytes("0x00000000000000"), []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{StringToBytes("0xff"), []byte{0xff}},
		{StringToBytes("0x2"), []byte{0x02}},
		{StringToBytes("zz"), nil},
	}

	for i, test := range tests {
		if !bytes.Equal(test.arr, test.exp) {
			t.Errorf("test %d, got %x exp %x", i, test.arr, test.exp)
		}
	}
}

func TestParseHexBytes(t *testing.T) {
	t.Parallel()

	_, err := ParseHexBytes("0xgg")
	assert.ErrorIs(t, err, ErrInvalidHex)

	b, err := ParseHexBytes("abc")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0xbc}, b)
}

func TestTrimLeftZeroes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arr []byte
		exp []byte
	}{
		{StringToBytes("0x00ffff00ff0000"), StringToBytes("0xffff00ff0000")},
		{StringToBytes("0x00000000000000"), []byte{}},
		{StringToBytes("0xff"), StringToBytes("0xff")},
		{[]byte{}, []byte{}},
	}

	for i, test := range tests {
		got := TrimLeftZeroes(test.arr)
		if !bytes.Equal(got, test.exp) {
			t.Errorf("test %d, got %x exp %x", i, got, test.exp)
		}
	}
}

func TestLeftPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{0, 0, 1}, leftPad([]byte{1}, 3))
	assert.Equal(t, []byte{2, 3}, leftPad([]byte{1, 2, 3}, 2))
}
