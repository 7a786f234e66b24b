package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellularAutomatonPrngGoldenVectorZeroSeed(t *testing.T) {
	p, err := NewCellularAutomatonPrngFromSeed([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	want := []int32{-1993759977, 711123852, -1484544707, 1617812561}
	for _, w := range want {
		assert.Equal(t, w, p.NextInt())
	}
}

// TestCellularAutomatonPrngNonZeroSeedDivergesFromZeroSeed does not assert
// a golden vector for a non-zero seed: the little-endian word assembled
// from the seed bytes feeds the pre-evolve phase before a single bit is
// ever surfaced, so unlike the all-zero seed (endian-agnostic, all bytes
// equal) any exact expected output for a non-zero seed can only come from
// an independently computed reference, not from running this code. What
// is checked instead is that a non-zero seed does not collapse to the
// same stream as the zero seed.
func TestCellularAutomatonPrngNonZeroSeedDivergesFromZeroSeed(t *testing.T) {
	zero, err := NewCellularAutomatonPrngFromSeed([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	other, err := NewCellularAutomatonPrngFromSeed([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.NotEqual(t, zero.NextInt(), other.NextInt())
}

// TestCellularAutomatonPrngByteReversedSeedsDiverge checks that two seeds
// holding the same bytes in opposite order, {1,0,0,0} and {0,0,0,1},
// produce different streams. It does not by itself tell a little-endian
// reading of the seed word from a big-endian one: the seed bytes are also
// copied straight into the top four cells, so the two seeds differ there
// under either byte order.
func TestCellularAutomatonPrngByteReversedSeedsDiverge(t *testing.T) {
	littleEndianLow, err := NewCellularAutomatonPrngFromSeed([]byte{1, 0, 0, 0})
	require.NoError(t, err)
	bigEndianLow, err := NewCellularAutomatonPrngFromSeed([]byte{0, 0, 0, 1})
	require.NoError(t, err)
	assert.NotEqual(t, littleEndianLow.NextInt(), bigEndianLow.NextInt())
}

func TestCellularAutomatonPrngDeterministic(t *testing.T) {
	seed := []byte{9, 8, 7, 6}
	p1, err := NewCellularAutomatonPrngFromSeed(seed)
	require.NoError(t, err)
	p2, err := NewCellularAutomatonPrngFromSeed(seed)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.Equal(t, p1.NextInt(), p2.NextInt())
	}
}

func TestCellularAutomatonPrngRejectsBadSeedLength(t *testing.T) {
	_, err := NewCellularAutomatonPrngFromSeed([]byte{1, 2, 3})
	require.Error(t, err)
	var target *InvalidSeedLengthError
	assert.ErrorAs(t, err, &target)
}

func TestCellularAutomatonPrngEntropyAccounting(t *testing.T) {
	p, err := NewCellularAutomatonPrngFromSeed([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, int64(32), p.EntropyBits())
	p.NextInt()
	assert.Equal(t, int64(0), p.EntropyBits())
}
