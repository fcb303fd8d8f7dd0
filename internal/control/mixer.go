package control

import (
	"fmt"

	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/protocol"
)

// TrackState is the mixer-track change a pad reports.
type TrackState int8

const (
	TrackFaderUp TrackState = iota
	TrackFaderDown
	TrackFaderValue
	TrackSoloOn
	TrackSoloOff
	TrackMuteOn
	TrackMuteOff
	TrackRecOn
	TrackRecOff
)

// First note of each per-track button row; track n uses offset+n-1.
const (
	faderTouchOffset = 104
	soloOffset       = 8
	muteOffset       = 16
	recOffset        = 0
)

// Mixer drives the faders and track buttons of a control surface.
type Mixer struct {
	out *output.Output
}

// NewMixer returns a Mixer sending on out.
func NewMixer(out *output.Output) *Mixer {
	return &Mixer{out: out}
}

// Handle applies msg to track msg.TrackIndex (1-based). Fader moves become a pitch bend on the
// track's channel; every other change is a button press on channel 1.
func (m *Mixer) Handle(msg protocol.MixerTrack) error {
	track := int(msg.TrackIndex) - 1

	switch TrackState(msg.State) {
	case TrackFaderUp:
		m.out.Tap(faderTouchOffset+track, 0, 1)
	case TrackFaderDown:
		m.out.Tap(faderTouchOffset+track, 127, 1)
	case TrackFaderValue:
		m.out.PitchBend(int(msg.Value), int(msg.TrackIndex))
	case TrackSoloOn, TrackSoloOff:
		m.out.Tap(soloOffset+track, 127, 1)
	case TrackMuteOn, TrackMuteOff:
		m.out.Tap(muteOffset+track, 127, 1)
	case TrackRecOn, TrackRecOff:
		m.out.Tap(recOffset+track, 127, 1)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTrackState, msg.State)
	}
	return nil
}
