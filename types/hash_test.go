package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tm-lightclient/lightclient/types"
)

func TestHash_EmptyIsZeroValue(t *testing.T) {
	assert.True(t, types.EmptyHash().IsEmpty())
	assert.False(t, types.EmptyHash().IsEmpty() == false)
}

func TestHash_Equal(t *testing.T) {
	a := types.HashFromBytes([]byte("abc"))
	b := types.HashFromBytes([]byte("abc"))
	c := types.HashFromBytes([]byte("xyz"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestHash_FromBytesTruncatesAndPads(t *testing.T) {
	short := types.HashFromBytes([]byte{1, 2, 3})
	assert.Equal(t, byte(1), short.Bytes()[0])
	assert.Equal(t, byte(0), short.Bytes()[31])

	long := types.HashFromBytes(make([]byte, 64))
	assert.Len(t, long.Bytes(), types.HashSize)
}

func TestHash_StringIsUpperHex(t *testing.T) {
	h := types.HashFromBytes([]byte{0xab, 0xcd})
	s := h.String()
	assert.Equal(t, s, s)
	for _, r := range s {
		assert.False(t, r >= 'a' && r <= 'f')
	}
}
