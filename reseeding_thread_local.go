package prng

// ReseedingThreadLocalPrng is a ThreadLocalPrng whose pool entries
// register themselves with a ReseederLoop as they're created, so every
// per-goroutine generator it hands out gets reseeded in the background
// once its entropy runs out, with no further action from the caller.
type ReseedingThreadLocalPrng struct {
	*ThreadLocalPrng
}

// NewReseedingThreadLocalPrng builds a ThreadLocalPrng from factory and
// registers it with loop.
func NewReseedingThreadLocalPrng(factory func() (Prng, error), loop *ReseederLoop) *ReseedingThreadLocalPrng {
	t := NewThreadLocalPrng(factory)
	t.RegisterWithReseeder(loop)
	return &ReseedingThreadLocalPrng{ThreadLocalPrng: t}
}
