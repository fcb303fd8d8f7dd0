package pattern

// ChordType is the quality of a chord voicing.
type ChordType int8

const (
	ChordMajor ChordType = iota
	ChordMinor
	ChordDominant
	ChordAugmented
	ChordDiminished
	ChordSus2
	ChordSus4
	ChordAdd6
	ChordAdd9
)

// Chord extension levels: how many stacked thirds follow the triad.
const (
	LevelTriad = iota
	LevelSeventh
	LevelNinth
	LevelEleventh
	LevelThirteenth
)

// stackedThirds are root, 3rd, 5th, 7th, 9th, 11th and 13th of a major chord.
var stackedThirds = [7]int{0, 4, 7, 11, 14, 17, 21}

// Voicing returns the semitone offsets of a chord of the given quality, truncated to
// 3+level notes. Levels outside LevelTriad..LevelThirteenth are clamped. Add6 and Add9
// currently voice like a major chord.
func Voicing(kind ChordType, level int) []int {
	n := stackedThirds
	switch kind {
	case ChordMinor:
		n[1]--
		n[3]--
	case ChordDominant:
		n[3]--
	case ChordAugmented:
		n[2]++
	case ChordDiminished:
		n[1]--
		n[2]--
	case ChordSus2:
		n[1] -= 2
	case ChordSus4:
		n[1]++
	}

	level = min(max(level, LevelTriad), LevelThirteenth)
	return append([]int(nil), n[:3+level]...)
}

// Transpose inverts a voicing times times: each inversion takes the top note down an octave
// and puts it at the bottom. The slice is rotated in place and returned.
func Transpose(offsets []int, times int) []int {
	if len(offsets) == 0 {
		return offsets
	}
	for range max(times, 0) {
		top := offsets[len(offsets)-1]
		copy(offsets[1:], offsets[:len(offsets)-1])
		offsets[0] = top - octave
	}
	return offsets
}
