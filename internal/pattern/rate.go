package pattern

import (
	"fmt"
	"time"
)

// Rate is the note value an arpeggio steps at. The D suffix marks dotted values, T triplets.
type Rate int8

const (
	Rate1_1 Rate = iota
	Rate1_2D
	Rate1_1T
	Rate1_2
	Rate1_4D
	Rate1_2T
	Rate1_4
	Rate1_8D
	Rate1_4T
	Rate1_8
	Rate1_16D
	Rate1_8T
	Rate1_16
	Rate1_32D
	Rate1_16T
	Rate1_32
	Rate1_64D
	Rate1_32T
	Rate1_64
	Rate1_64T

	rateCount
)

const (
	dotted  = 1.5
	triplet = 2.0 / 3.0
)

// rateScales holds the length of each rate in beats (quarter notes).
var rateScales = [rateCount]float64{
	Rate1_1:   4,
	Rate1_2D:  2 * dotted,
	Rate1_1T:  4 * triplet,
	Rate1_2:   2,
	Rate1_4D:  1 * dotted,
	Rate1_2T:  2 * triplet,
	Rate1_4:   1,
	Rate1_8D:  0.5 * dotted,
	Rate1_4T:  1 * triplet,
	Rate1_8:   0.5,
	Rate1_16D: 0.25 * dotted,
	Rate1_8T:  0.5 * triplet,
	Rate1_16:  0.25,
	Rate1_32D: 0.125 * dotted,
	Rate1_16T: 0.25 * triplet,
	Rate1_32:  0.125,
	Rate1_64D: 0.0625 * dotted,
	Rate1_32T: 0.125 * triplet,
	Rate1_64:  0.0625,
	Rate1_64T: 0.0625 * triplet,
}

// automationSpans is roughly the number of notes per bar at each rate, so a velocity
// automation takes about a bar to complete.
var automationSpans = [rateCount]int{
	Rate1_1:   1,
	Rate1_2D:  1,
	Rate1_1T:  1,
	Rate1_2:   2,
	Rate1_4D:  2,
	Rate1_2T:  3,
	Rate1_4:   4,
	Rate1_8D:  5,
	Rate1_4T:  6,
	Rate1_8:   8,
	Rate1_16D: 10,
	Rate1_8T:  12,
	Rate1_16:  16,
	Rate1_32D: 21,
	Rate1_16T: 24,
	Rate1_32:  32,
	Rate1_64D: 42,
	Rate1_32T: 48,
	Rate1_64:  64,
	Rate1_64T: 96,
}

// Valid reports whether r names a known rate.
func (r Rate) Valid() bool {
	return r >= 0 && r < rateCount
}

// Beats returns the rate's length in beats.
func (r Rate) Beats() float64 {
	if !r.Valid() {
		return 0
	}
	return rateScales[r]
}

// AutomationSpan returns how many steps a velocity automation takes at this rate.
func (r Rate) AutomationSpan() int {
	if !r.Valid() {
		return 0
	}
	return automationSpans[r]
}

// Interval returns the time between two notes at this rate and tempo.
func (r Rate) Interval(bpm int) time.Duration {
	return time.Duration(float64(BeatDuration(bpm)) * r.Beats())
}

func (r Rate) String() string {
	names := [rateCount]string{
		"1/1", "1/2.", "1/1T", "1/2", "1/4.", "1/2T", "1/4", "1/8.", "1/4T", "1/8",
		"1/16.", "1/8T", "1/16", "1/32.", "1/16T", "1/32", "1/64.", "1/32T", "1/64", "1/64T",
	}
	if !r.Valid() {
		return fmt.Sprintf("Rate(%d)", int8(r))
	}
	return names[r]
}

// BeatDuration returns the length of one beat at bpm. bpm must be positive.
func BeatDuration(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Minute / time.Duration(bpm)
}

// SwingIntervals lengthens every other interval by swingPct percent of d and shortens the
// following one by the same amount. Negative results are clamped to zero.
func SwingIntervals(d time.Duration, swingPct int) []time.Duration {
	delta := time.Duration(float64(d) * float64(swingPct) / 100)
	return []time.Duration{max(d+delta, 0), max(d-delta, 0)}
}
