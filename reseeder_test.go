package prng

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReseederLoopReseedsOnZeroEntropy(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource(), WithMinBackoff(5*time.Millisecond))
	require.True(t, loop.Start())
	defer loop.Stop()

	p, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	p.RegisterWithReseeder(loop)

	for p.EntropyBits() > 0 {
		p.NextLong()
	}
	require.Eventually(t, func() bool {
		return p.EntropyBits() > 0
	}, 2*time.Second, time.Millisecond, "expected the loop to reseed the generator")
	assert.False(t, p.ReseedFailed())
}

func TestReseederLoopUnregisterStopsReseeding(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())
	require.True(t, loop.Start())
	defer loop.Stop()

	p, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	p.RegisterWithReseeder(loop)
	p.RegisterWithReseeder(nil)

	assert.False(t, loop.isRegistered(p.BasePrng))
	loop.nudge(p.BasePrng)
	assert.False(t, loop.pending.Has(p.BasePrng))
}

func TestReseederLoopPublishesSuccessEvent(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource(), WithMinBackoff(5*time.Millisecond))
	require.True(t, loop.Start())
	defer loop.Stop()

	sub := loop.Subscribe(ReseedSucceeded)
	defer sub.Close()

	p, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	p.RegisterWithReseeder(loop)
	for p.EntropyBits() > 0 {
		p.NextLong()
	}

	_, msg, err := sub.ReceiveTimeout(2 * time.Second)
	require.NoError(t, err)
	assert.Same(t, p.BasePrng, msg.Prng)
}

func TestReseederLoopRegisteredReflectsRegistrationOrder(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())

	p1, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	p2, err := NewAESCounterPrngFromSeed(make([]byte, 16))
	require.NoError(t, err)
	p1.RegisterWithReseeder(loop)
	p2.RegisterWithReseeder(loop)

	assert.Equal(t, []*BasePrng{p1.BasePrng, p2.BasePrng}, loop.Registered())

	p1.RegisterWithReseeder(nil)
	assert.Equal(t, []*BasePrng{p2.BasePrng}, loop.Registered())
}

func TestReseederLoopStartIsIdempotent(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())
	assert.True(t, loop.Start())
	assert.False(t, loop.Start())
	loop.Stop()
}

func TestReseederLoopStopWithoutStartReturnsNil(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())
	assert.Nil(t, loop.Stop())
}

func TestReseederLoopStopClosesReturnedChannel(t *testing.T) {
	loop := NewReseederLoop(DefaultSeedSource())
	require.True(t, loop.Start())
	ch := loop.Stop()
	require.NotNil(t, ch)
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the loop to stop")
	}
}
