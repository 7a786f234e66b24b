package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource is a Uint64Source over a fixed, repeating list of values,
// used to drive RandomWrapper deterministically without depending on
// any particular math/rand/v2 algorithm.
type fixedSource struct {
	vals []uint64
	pos  int
}

func (s *fixedSource) Uint64() uint64 {
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v
}

// seedableSource additionally implements ByteArraySeedable.
type seedableSource struct {
	fixedSource
	seed []byte
}

func (s *seedableSource) SetSeedBytes(seed []byte) error {
	s.seed = append([]byte(nil), seed...)
	s.pos = 0
	return nil
}

func (s *seedableSource) SeedBytes() []byte { return append([]byte(nil), s.seed...) }

func TestRandomWrapperDelegatesBits(t *testing.T) {
	src := &fixedSource{vals: []uint64{0xFFFFFFFFFFFFFFFF, 0}}
	w := NewRandomWrapper(src)
	assert.Equal(t, int32(-1), w.NextInt())
	assert.Equal(t, int32(-1), w.NextInt())
	assert.Equal(t, int32(0), w.NextInt())
}

func TestRandomWrapperSeedUnsupportedWithoutCapability(t *testing.T) {
	src := &fixedSource{vals: []uint64{1}}
	w := NewRandomWrapper(src)
	err := w.SetSeed([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.Error(t, err)
	var target *UnsupportedOperationError
	assert.ErrorAs(t, err, &target)
}

func TestRandomWrapperSeedSupportedWithCapability(t *testing.T) {
	src := &seedableSource{}
	w := NewRandomWrapper(src)
	seed := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, w.SetSeed(seed))
	got, err := w.Seed()
	require.NoError(t, err)
	assert.Equal(t, seed, got)
	assert.Equal(t, int64(64), w.EntropyBits())
}

func TestRandomWrapperSeedUnsupportedWithoutCapabilityOnRead(t *testing.T) {
	src := &fixedSource{vals: []uint64{1}}
	w := NewRandomWrapper(src)
	_, err := w.Seed()
	require.Error(t, err)
	var target *UnsupportedOperationError
	assert.ErrorAs(t, err, &target)
}

func TestRandomWrapperFromSeedDeterministic(t *testing.T) {
	seed := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	w1, err := NewRandomWrapperFromSeed(seed)
	require.NoError(t, err)
	w2, err := NewRandomWrapperFromSeed(seed)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, w1.NextLong(), w2.NextLong())
	}
}

func TestRandomWrapperFromSeedRejectsBadLength(t *testing.T) {
	_, err := NewRandomWrapperFromSeed([]byte{1, 2, 3})
	require.Error(t, err)
	var target *InvalidSeedLengthError
	assert.ErrorAs(t, err, &target)
}

func TestRandomWrapperDumpReportsWrappedType(t *testing.T) {
	src := &fixedSource{vals: []uint64{1}}
	w := NewRandomWrapper(src)
	assert.Contains(t, w.Dump(), "knownSeed=false")
}
