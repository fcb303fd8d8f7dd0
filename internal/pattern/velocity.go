package pattern

import (
	"fmt"
	"math/rand/v2"
)

// MaxVelocity is the loudest velocity the MIDI protocol carries.
const MaxVelocity = 127

// Automation selects how velocity evolves over an arpeggio cycle.
type Automation int8

const (
	AutomationNone Automation = iota
	AutomationUp
	AutomationDown
	AutomationUpDown
	AutomationDownUp
	AutomationStep
	AutomationRandom
)

// Counterpart returns the far end of the velocity range: base scaled by dynamicPct percent,
// kept inside 0..MaxVelocity.
func Counterpart(base int, dynamicPct int) int {
	v := int(float64(base) * float64(dynamicPct) / 100)
	return min(max(v, 0), MaxVelocity)
}

// BuildVelocities returns the cyclic velocity pattern spanning span steps between base and its
// counterpart. Random values are drawn once here, so every cycle repeats them; rng may be nil.
func BuildVelocities(base int, automation Automation, dynamicPct int, span int, rng *rand.Rand) (*Cycle[int], error) {
	if span <= 0 {
		return nil, fmt.Errorf("%w: automation span %d", ErrEmpty, span)
	}

	other := Counterpart(base, dynamicPct)
	lo, hi := min(base, other), max(base, other)
	step := (hi - lo) / span

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	var values []int
	switch automation {
	case AutomationUp:
		values = countTo(span, func(i int) int { return lo + i*step })
	case AutomationDown:
		values = countTo(span, func(i int) int { return hi - i*step })
	case AutomationUpDown:
		values = countUpDown(span, func(i int) int { return lo + i*step*2 })
	case AutomationDownUp:
		values = countUpDown(span, func(i int) int { return hi - i*step*2 })
	case AutomationStep:
		values = countTo(span, func(i int) int {
			if i%2 == 0 {
				return hi
			}
			return lo
		})
	case AutomationRandom:
		values = countTo(span, func(int) int { return lo + intN(hi-lo+1) })
	default:
		values = countTo(span, func(int) int { return base })
	}
	return NewCycle(values)
}
