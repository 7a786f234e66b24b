package prng

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/alaingilbert/prng/internal/mtx"
	"github.com/alaingilbert/prng/internal/pubsub"
	gosync "github.com/alaingilbert/prng/internal/sync"
	"github.com/alaingilbert/prng/internal/utils"
	"github.com/jonboulle/clockwork"
)

// ReseedEventType identifies what happened to a reseed attempt.
type ReseedEventType int

const (
	// ReseedSucceeded is published after a registered generator accepts
	// a fresh seed.
	ReseedSucceeded ReseedEventType = iota
	// ReseedFailed is published after a reseed attempt errors, whether
	// from the seed source or from the generator rejecting the seed.
	ReseedFailed
)

// ReseedEvent describes one reseed attempt, successful or not.
type ReseedEvent struct {
	Prng *BasePrng
	Err  error
}

// ReseederLoop runs in the background and replenishes the entropy of any
// number of registered generators once they cross zero. A single loop
// can service generators of different algorithms and seed lengths: each
// is reseeded with exactly the seed length it reports via
// NewSeedLength.
//
// The loop idles, woken only by a registered generator's debit crossing
// zero (nudge) or by Stop; a failed attempt
// is retried with exponential backoff between minBackoff and maxBackoff
// rather than spinning.
type ReseederLoop struct {
	seedSource SeedSource
	clock      clockwork.Clock
	logger     *log.Logger
	parentCtx  context.Context
	minBackoff time.Duration
	maxBackoff time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wake    chan struct{}
	stopped chan struct{}

	// registered is the ordered, thread-safe list of generators serviced
	// by this loop, the same shape the teacher's own scheduler keeps its
	// list of entries in.
	registered mtx.RWMtxSlice[*BasePrng]
	pending    gosync.Map[*BasePrng, struct{}]

	events *pubsub.PubSub[ReseedEventType, ReseedEvent]
}

// NewReseederLoop constructs a ReseederLoop that draws fresh seeds from
// seedSource. It does not start running until Start is called.
func NewReseederLoop(seedSource SeedSource, opts ...ReseederOption) *ReseederLoop {
	cfg := utils.BuildConfig(opts)
	clock := utils.Or(cfg.clock, clockwork.NewRealClock())
	logger := utils.Or(cfg.logger, log.New(os.Stderr, "prng: ", log.LstdFlags))
	parentCtx := utils.Or(cfg.parentCtx, context.Background())
	minBackoff := utils.Or(cfg.minBackoff, 100*time.Millisecond)
	maxBackoff := utils.Or(cfg.maxBackoff, 10*time.Second)
	ctx, cancel := context.WithCancel(parentCtx)
	return &ReseederLoop{
		seedSource: seedSource,
		clock:      clock,
		logger:     logger,
		parentCtx:  parentCtx,
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
		ctx:        ctx,
		cancel:     cancel,
		wake:       make(chan struct{}, 1),
		events:     pubsub.NewPubSub[ReseedEventType, ReseedEvent](),
	}
}

// Start runs the loop in its own goroutine, or no-ops if already running.
func (r *ReseederLoop) Start() (started bool) {
	if started = r.running.CompareAndSwap(false, true); started {
		r.stopped = make(chan struct{})
		go r.run()
	}
	return
}

// Stop stops the loop if running, otherwise it does nothing. The
// returned channel closes once the background goroutine has exited.
func (r *ReseederLoop) Stop() <-chan struct{} {
	if !r.running.CompareAndSwap(true, false) {
		return nil
	}
	r.cancel()
	return r.stopped
}

// Subscribe returns a subscription to reseed events for the given
// topics (ReseedSucceeded, ReseedFailed, or both).
func (r *ReseederLoop) Subscribe(topics ...ReseedEventType) *pubsub.Sub[ReseedEventType, ReseedEvent] {
	return r.events.Subscribe(topics)
}

func (r *ReseederLoop) register(p *BasePrng) {
	if r.isRegistered(p) {
		return
	}
	r.registered.Append(p)
}

func (r *ReseederLoop) isRegistered(p *BasePrng) (found bool) {
	r.registered.RWith(func(entries []*BasePrng) {
		_, idx := utils.FindIdx(entries, func(e *BasePrng) bool { return e == p })
		found = idx >= 0
	})
	return
}

func (r *ReseederLoop) unregister(p *BasePrng) {
	r.registered.With(func(entries *[]*BasePrng) {
		_, idx := utils.FindIdx(*entries, func(e *BasePrng) bool { return e == p })
		if idx >= 0 {
			*entries = append((*entries)[:idx], (*entries)[idx+1:]...)
		}
	})
	r.pending.Delete(p)
}

// Registered returns a snapshot, in registration order, of the
// generators currently serviced by this loop.
func (r *ReseederLoop) Registered() []*BasePrng {
	return r.registered.Clone()
}

// nudge marks p as due for reseeding and wakes the loop. It is called
// from BasePrng.debit, potentially from many goroutines at once, and
// must never block.
func (r *ReseederLoop) nudge(p *BasePrng) {
	if !r.isRegistered(p) {
		return
	}
	r.pending.Store(p, struct{}{})
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *ReseederLoop) hasPending() bool {
	due := false
	r.pending.RangeKeys(func(*BasePrng) bool {
		due = true
		return false
	})
	return due
}

func (r *ReseederLoop) run() {
	defer close(r.stopped)
	delay := idleDelay
	backoff := r.minBackoff
	for {
		select {
		case <-r.clock.After(delay):
		case <-r.wake:
		case <-r.ctx.Done():
			return
		}
		if r.ctx.Err() != nil {
			return
		}
		if !r.hasPending() {
			delay = idleDelay
			continue
		}
		if r.processPending() {
			delay = backoff
			backoff = min(backoff*2, r.maxBackoff)
		} else {
			delay = idleDelay
			backoff = r.minBackoff
		}
	}
}

// idleDelay is how long the loop sleeps when nothing is pending. It
// only matters as a ceiling: the loop wakes immediately on nudge or
// Stop.
const idleDelay = 100_000 * time.Hour

// processPending attempts to reseed every generator currently marked
// due, reporting whether any attempt failed.
func (r *ReseederLoop) processPending() (anyFailed bool) {
	var due []*BasePrng
	r.pending.RangeKeys(func(p *BasePrng) bool {
		due = append(due, p)
		return true
	})
	for _, p := range due {
		if err := r.attemptReseed(p); err != nil {
			anyFailed = true
			p.markReseedFailed(true)
			r.logger.Printf("prng: reseed failed: %v", err)
			r.events.Pub(ReseedFailed, ReseedEvent{Prng: p, Err: err})
			continue
		}
		r.pending.Delete(p)
		r.events.Pub(ReseedSucceeded, ReseedEvent{Prng: p})
	}
	return
}

func (r *ReseederLoop) attemptReseed(p *BasePrng) error {
	n := p.NewSeedLength()
	seed, err := r.seedSource.Generate(n)
	if err != nil {
		return err
	}
	return p.SetSeed(seed)
}
