package prng

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReseedingThreadLocalPrngRegistersPoolEntries(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource(), WithMinBackoff(5*time.Millisecond))
	require.True(t, loop.Start())
	defer loop.Stop()

	rtl := NewReseedingThreadLocalPrng(newThreadLocalFactory(4), loop)

	rtl.with(func(p Prng) {
		aes := p.(*AESCounterPrng)
		for aes.EntropyBits() > 0 {
			aes.NextLong()
		}
		require.Eventually(t, func() bool {
			return aes.EntropyBits() > 0
		}, 2*time.Second, time.Millisecond)
	})
}

func TestReseedingThreadLocalPrngDelegatesOutput(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())
	rtl := NewReseedingThreadLocalPrng(newThreadLocalFactory(2), loop)
	assert.NotPanics(t, func() { rtl.NextBoolean() })
}
