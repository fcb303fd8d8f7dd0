// Package output guards the performance engine's access to a MIDI sink.
//
// Notes computed by the pattern builders may fall outside the MIDI range and control-surface
// tables use negative notes for "not mapped on this target"; both are dropped here. Sink
// failures are logged and swallowed so a flaky device never tears down a gesture or a
// connection.
package output

import (
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

const (
	maxData = 127
	minPos  = -128
	maxPos  = 127
)

// Output sends events to a sink one call at a time.
type Output struct {
	sink contracts.OutputSink
	log  contracts.Logger
}

// New wraps sink. The sink must serialize its own calls.
func New(sink contracts.OutputSink, log contracts.Logger) *Output {
	return &Output{sink: sink, log: log}
}

// NoteOn sounds note. Notes outside 0..127 produce no event.
func (o *Output) NoteOn(note, velocity, channel int) {
	if !playable(note) {
		o.skip("note on", note)
		return
	}
	o.report("note on", note, o.sink.NoteOn(int8(note), data(velocity), int8(channel)))
}

// NoteOff releases note. Notes outside 0..127 produce no event.
func (o *Output) NoteOff(note, velocity, channel int) {
	if !playable(note) {
		o.skip("note off", note)
		return
	}
	o.report("note off", note, o.sink.NoteOff(int8(note), data(velocity), int8(channel)))
}

// Tap sends a note-on immediately followed by its note-off, the way a control surface button
// press looks to a DAW.
func (o *Output) Tap(note, velocity, channel int) {
	o.NoteOn(note, velocity, channel)
	o.NoteOff(note, velocity, channel)
}

// PitchBend moves the wheel to the signed 8-bit position pos.
func (o *Output) PitchBend(pos, channel int) {
	pos = min(max(pos, minPos), maxPos)
	o.report("pitch bend", pos, o.sink.PitchBend(int8(pos), int8(channel)))
}

// ControlChange sets controller to value.
func (o *Output) ControlChange(controller, value, channel int) {
	if !playable(controller) {
		o.skip("control change", controller)
		return
	}
	o.report("control change", controller, o.sink.ControlChange(int8(controller), data(value), int8(channel)))
}

func (o *Output) skip(kind string, value int) {
	o.log.Debug("Skipping unmapped "+kind, o.log.Field().Int("value", value))
}

func (o *Output) report(kind string, value int, err error) {
	if err == nil {
		return
	}
	o.log.Error("Failed to send "+kind,
		o.log.Field().Int("value", value),
		o.log.Field().Error("error", err),
	)
}

func playable(v int) bool {
	return v >= 0 && v <= maxData
}

func data(v int) int8 {
	return int8(min(max(v, 0), maxData))
}
