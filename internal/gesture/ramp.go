package gesture

import (
	"sync"
	"time"

	"github.com/leandrodaf/vpadserver/internal/output"
)

// DefaultRampStep is the delay between two pitch-wheel positions of a ramp.
const DefaultRampStep = time.Millisecond

// Ramp glides the pitch wheel between positions. Only the most recent ramp plays: starting a
// new one signals every running ramp to stop before its next step.
type Ramp struct {
	out  *output.Output
	step time.Duration

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewRamp returns a ramp controller stepping every step, or DefaultRampStep when step <= 0.
func NewRamp(out *output.Output, step time.Duration) *Ramp {
	if step <= 0 {
		step = DefaultRampStep
	}
	return &Ramp{out: out, step: step}
}

// MoveTo walks the wheel on channel through every position from prev to target, both included.
func (r *Ramp) MoveTo(prev, target, channel int) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.stop != nil {
		close(r.stop)
	}
	stop := make(chan struct{})
	r.stop = stop
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		for _, pos := range rampSteps(prev, target) {
			select {
			case <-stop:
				return
			default:
			}
			r.out.PitchBend(pos, channel)

			select {
			case <-stop:
				return
			case <-time.After(r.step):
			}
		}
	}()
}

// Close stops the running ramp and waits for it. Later MoveTo calls are ignored.
func (r *Ramp) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		if r.stop != nil {
			close(r.stop)
			r.stop = nil
		}
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func rampSteps(from, to int) []int {
	step := 1
	if to < from {
		step = -1
	}
	out := make([]int, 0, abs(to-from)+1)
	for p := from; ; p += step {
		out = append(out, p)
		if p == to {
			return out
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
