package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey(3, 11), PairKey(11, 3))
	assert.Equal(t, "3_11", PairKey(11, 3))
}

func TestParsePairKey(t *testing.T) {
	lo, hi, err := ParsePairKey(PairKey(42, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, lo)
	assert.Equal(t, 42, hi)

	for _, bad := range []string{"", "7", "a_b", "9_3", "4_4"} {
		_, _, err := ParsePairKey(bad)
		assert.ErrorIs(t, err, ErrInvalidPairKey, bad)
	}
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "user:5", User(5))
	assert.Equal(t, "ticket:9", Ticket(9))
	assert.Equal(t, "chat:1_2", Chat(PairKey(2, 1)))
}
