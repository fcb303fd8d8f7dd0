package pattern

import "fmt"

// Method selects how an arpeggio spreads its voices above or below the base note.
type Method int8

const (
	MethodNone Method = iota
	MethodUp
	MethodDown
	MethodUpDown
	MethodDownUp
	MethodMajorTriad
	MethodMajorSeventh
	MethodMinorTriad
	MethodMinorSeventh
)

const octave = 12

var chordCycles = map[Method][]int{
	MethodMajorTriad:   {0, 4, 7},
	MethodMajorSeventh: {0, 4, 7, 11},
	MethodMinorTriad:   {0, 3, 7},
	MethodMinorSeventh: {0, 3, 7, 11},
}

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodUp:
		return "up"
	case MethodDown:
		return "down"
	case MethodUpDown:
		return "up-down"
	case MethodDownUp:
		return "down-up"
	case MethodMajorTriad:
		return "major-triad"
	case MethodMajorSeventh:
		return "major-7th"
	case MethodMinorTriad:
		return "minor-triad"
	case MethodMinorSeventh:
		return "minor-7th"
	}
	return fmt.Sprintf("Method(%d)", int8(m))
}

// NoteOffsets returns the semitone offsets of voices voices spread with method.
// Unknown methods fall back to chromatic steps.
func NoteOffsets(method Method, voices int) []int {
	switch method {
	case MethodUp:
		return countTo(voices, func(i int) int { return i * octave })
	case MethodDown:
		return countTo(voices, func(i int) int { return -i * octave })
	case MethodUpDown:
		return countUpDown(voices, func(i int) int { return i * octave })
	case MethodDownUp:
		return countUpDown(voices, func(i int) int { return -i * octave })
	case MethodMajorTriad, MethodMajorSeventh, MethodMinorTriad, MethodMinorSeventh:
		cycle := chordCycles[method]
		// The chord climbs an octave every time it repeats: 0 4 7 12 16 19 ...
		return countTo(voices, func(i int) int {
			return (i/len(cycle))*octave + cycle[i%len(cycle)]
		})
	default:
		return countTo(voices, func(i int) int { return i })
	}
}

// BuildNotes returns the cyclic note pattern for an arpeggio rooted at base.
// Notes may fall outside 0..127; the output layer drops those.
func BuildNotes(base int, method Method, voices int) (*Cycle[int], error) {
	offsets := NoteOffsets(method, voices)
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: %d voices", ErrEmpty, voices)
	}
	for i := range offsets {
		offsets[i] += base
	}
	return NewCycle(offsets)
}
