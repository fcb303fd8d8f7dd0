// Package control maps DAW transport buttons and mixer-track controls onto the notes and pitch
// bends a Mackie-style control surface sends.
package control

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

var (
	// ErrOperationOutOfRange is returned for transport operations outside the table.
	ErrOperationOutOfRange = errors.New("transport operation out of range")
	// ErrUnknownTrackState is returned for mixer-track states this server does not map.
	ErrUnknownTrackState = errors.New("unknown mixer track state")
)

// Operation is a transport button.
type Operation int8

const (
	OpPlay Operation = iota
	OpStop
	OpRecord
	OpUndo
	OpRedo
	OpLoop
	OpSave
	OpZoom
	OpCursorLeft
	OpCursorRight
	OpCursorUp
	OpCursorDown
	OpClick
	OpBankLeft
	OpBankRight

	operationCount
)

// Semitones within an octave.
const (
	semC = iota
	semCSharp
	semD
	semDSharp
	semE
	semF
	semFSharp
	semG
	semGSharp
	semA
	semASharp
	semB
)

// octave returns the note number of C in octave n, with middle C (60) in octave 4.
func octave(n int) int { return (n + 1) * 12 }

// unmapped marks a button the target DAW has no control for.
const unmapped = -1

var (
	aSharp2 = octave(2) + semASharp
	b2      = octave(2) + semB
	aSharp4 = octave(4) + semASharp
	b4      = octave(4) + semB
	c5      = octave(5) + semC
	e5      = octave(5) + semE
	g5      = octave(5) + semG
	gSharp5 = octave(5) + semGSharp
	a5      = octave(5) + semA
	d6      = octave(6) + semD
	a6      = octave(6) + semA
	aSharp6 = octave(6) + semASharp
	b6      = octave(6) + semB
	c7      = octave(7) + semC
	cSharp7 = octave(7) + semCSharp
	dSharp7 = octave(7) + semDSharp
	e7      = octave(7) + semE
	f7      = octave(7) + semF
)

var mcuNotes = [operationCount]int{
	aSharp6, a6, b6, e5, g5, d6, unmapped, dSharp7, cSharp7, e7, c7, f7, unmapped, aSharp2, b2,
}

// transportNotes lists, per DAW, the note sent for every Operation.
var transportNotes = map[contracts.DAW][operationCount]int{
	contracts.McuDefault:    mcuNotes,
	contracts.FLStudio:      mcuNotes,
	contracts.StudioOne:     mcuNotes,
	contracts.ProTools:      {aSharp6, a6, b6, a5, g5, d6, gSharp5, dSharp7, cSharp7, e7, c7, f7, unmapped, aSharp2, b2},
	contracts.Reaper:        mcuNotes,
	contracts.AbletonLive:   mcuNotes,
	contracts.Cubase:        {aSharp6, a6, b6, aSharp4, b4, unmapped, c5, dSharp7, cSharp7, e7, c7, f7, unmapped, aSharp2, b2},
	contracts.AdobeAudition: mcuNotes,
	contracts.CakeWalk:      mcuNotes,
	contracts.Logic:         mcuNotes,
}

// NoteFor returns the note daw expects for op, or a negative value when daw has no such
// control. Unknown DAWs use the default Mackie mapping.
func NoteFor(daw contracts.DAW, op Operation) int {
	if op < 0 || op >= operationCount {
		return unmapped
	}
	table, ok := transportNotes[daw]
	if !ok {
		table = mcuNotes
	}
	return table[op]
}

// Transport presses transport buttons on the control sink.
type Transport struct {
	out *output.Output
	daw contracts.DAW
}

// NewTransport returns a Transport using the mapping of daw.
func NewTransport(out *output.Output, daw contracts.DAW) *Transport {
	return &Transport{out: out, daw: daw}
}

// Handle presses the button for msg.Operation when the state begins, and releases it when the
// state ends or the message asks to close automatically.
func (t *Transport) Handle(msg protocol.Transport) error {
	op := Operation(msg.Operation)
	if op < 0 || op >= operationCount {
		return fmt.Errorf("%w: %d", ErrOperationOutOfRange, msg.Operation)
	}

	note := NoteFor(t.daw, op)
	if msg.State == protocol.StateBegin {
		t.out.Tap(note, 127, 1)
	}
	if msg.State == protocol.StateEnd || msg.AutoClose == 1 {
		t.out.Tap(note, 0, 1)
	}
	return nil
}
