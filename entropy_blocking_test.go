package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntropyBlockingPrngReseedsSynchronously(t *testing.T) {
	inner, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	eb := NewEntropyBlockingPrng(inner, DefaultSeedSource(), 0)

	for inner.EntropyBits() > 0 {
		inner.NextLong()
	}
	require.LessOrEqual(t, inner.EntropyBits(), int64(0))

	eb.NextInt()
	assert.Greater(t, inner.EntropyBits(), int64(0))
}

func TestEntropyBlockingPrngDelegatesWhenEntropyPresent(t *testing.T) {
	inner, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	eb := NewEntropyBlockingPrng(inner, DefaultSeedSource(), 0)
	before := inner.EntropyBits()
	eb.NextInt()
	assert.Equal(t, before-32, inner.EntropyBits())
}

func TestEntropyBlockingPrngSequenceAndDelegatedAccessors(t *testing.T) {
	inner, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	eb := NewEntropyBlockingPrng(inner, DefaultSeedSource(), 0)

	count := 0
	for v := range eb.Doubles(5) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		count++
	}
	assert.Equal(t, 5, count)

	assert.Equal(t, inner.NewSeedLength(), eb.NewSeedLength())
	innerSeed, innerErr := inner.Seed()
	ebSeed, ebErr := eb.Seed()
	require.NoError(t, innerErr)
	require.NoError(t, ebErr)
	assert.Equal(t, innerSeed, ebSeed)
	assert.Contains(t, eb.Dump(), "EntropyBlockingPrng{minEntropy=0")
}
