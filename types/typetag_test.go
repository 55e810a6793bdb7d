package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructTag(t *testing.T) {
	t.Parallel()

	tag, err := ParseStructTag("0x2::coin::Coin<0x2::sui::SUI>")
	require.NoError(t, err)

	assert.True(t, tag.Is(FrameworkAddress, "coin", "Coin"))
	assert.Equal(t, []TypeTag{SuiCoinType}, tag.TypeParams)
	assert.Equal(t, GasCoinStructTag().String(), tag.String())
}

func TestParseTypeTagNested(t *testing.T) {
	t.Parallel()

	tag, err := ParseTypeTag("0x2::dynamic_field::Field<vector<u8>, 0x2::table::Table<u64, 0x1::string::String>>")
	require.NoError(t, err)

	st, err := tag.StructTag()
	require.NoError(t, err)
	require.Len(t, st.TypeParams, 2)

	assert.Equal(t, TypeTag("vector<u8>"), st.TypeParams[0])

	inner, err := st.TypeParams[1].StructTag()
	require.NoError(t, err)
	assert.Equal(t, []TypeTag{"u64", NewStructTag(BytesToAddress([]byte{1}), "string", "String").TypeTag()},
		inner.TypeParams)
}

func TestParseTypeTagErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"0x2::coin",
		"0x2::coin::Coin<u64",
		"0x2::coin::Coin<u64>>",
		"zz::m::N",
		"u512",
	} {
		_, err := ParseTypeTag(input)
		assert.ErrorIs(t, err, ErrInvalidTypeTag, input)
	}
}
