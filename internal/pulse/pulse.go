// Package pulse produces ticks at musically meaningful intervals without drifting.
package pulse

import (
	"errors"
	"iter"
	"math"
	"sync/atomic"
	"time"
)

// DefaultCheckInterval is the polling granularity used when none is given.
const DefaultCheckInterval = time.Millisecond

// ErrNoIntervals is returned when a generator is built without intervals.
var ErrNoIntervals = errors.New("pulse generator needs at least one interval")

// Generator yields tick indices 0, 1, 2, ... Tick 0 fires immediately; tick i fires once the
// time elapsed since construction reaches the sum of the intervals consumed so far, taking
// intervals[(i-1) % len(intervals)] for tick i. Deadlines are measured against the start time,
// never against the previous tick, so polling latency does not accumulate.
//
// Next blocks the calling goroutine, sleeping CheckInterval between clock reads.
// A Generator is not restartable; once stopped or exhausted Next always reports false.
type Generator struct {
	intervals     []time.Duration
	checkInterval time.Duration
	maxTicks      uint64

	start   time.Time
	spent   time.Duration
	iter    uint64
	stopped atomic.Bool

	now   func() time.Time
	sleep func(time.Duration)
}

// Option configures a Generator.
type Option func(*Generator)

// WithCheckInterval sets the polling granularity. Larger values use less CPU and bound the
// timing precision to +/- one interval.
func WithCheckInterval(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.checkInterval = d
		}
	}
}

// WithMaxTicks limits how many ticks are produced before the generator stops by itself.
func WithMaxTicks(n uint64) Option {
	return func(g *Generator) {
		g.maxTicks = n
	}
}

// WithClock replaces the wall clock and sleep function. Intended for tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(g *Generator) {
		g.now = now
		g.sleep = sleep
	}
}

// New builds a generator and starts its clock.
func New(intervals []time.Duration, opts ...Option) (*Generator, error) {
	if len(intervals) == 0 {
		return nil, ErrNoIntervals
	}
	g := &Generator{
		intervals:     append([]time.Duration(nil), intervals...),
		checkInterval: DefaultCheckInterval,
		maxTicks:      math.MaxUint32 + 1,
		now:           time.Now,
		sleep:         time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.start = g.now()
	return g, nil
}

// Next blocks until the next tick is due and returns its index.
// It returns false once the generator is stopped or has produced its maximum number of ticks.
func (g *Generator) Next() (uint32, bool) {
	for !g.stopped.Load() {
		i := g.iter
		if i >= g.maxTicks {
			g.Stop()
			break
		}

		var d time.Duration
		if i > 0 {
			d = g.intervals[(i-1)%uint64(len(g.intervals))]
		}

		if g.now().Sub(g.start) >= g.spent+d {
			g.spent += d
			g.iter = i + 1
			return uint32(i), true
		}
		g.sleep(g.checkInterval)
	}
	return 0, false
}

// Stop exhausts the generator. It is safe to call from another goroutine and more than once;
// a concurrent Next returns false after at most one check interval.
func (g *Generator) Stop() {
	g.stopped.Store(true)
}

// Ticks returns the remaining ticks as a sequence. Leaving the range loop, for any reason,
// stops the generator.
func (g *Generator) Ticks() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		defer g.Stop()
		for {
			i, ok := g.Next()
			if !ok || !yield(i) {
				return
			}
		}
	}
}

// Elapsed returns the sum of intervals consumed by the ticks produced so far.
func (g *Generator) Elapsed() time.Duration {
	return g.spent
}
