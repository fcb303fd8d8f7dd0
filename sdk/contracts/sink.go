package contracts

import (
	"context"
	"net"
)

// OutputSink is the MIDI output capability consumed by the performance engine.
//
// Channels are 1-based (1..16) as they travel on the wire; implementations map anything
// outside that range to channel 1. Every call is atomic with respect to other calls on the
// same sink.
type OutputSink interface {
	NoteOn(note, velocity, channel int8) error
	NoteOff(note, velocity, channel int8) error
	// PitchBend sends an absolute wheel position; pos is scaled by 128 into 0..16383.
	PitchBend(pos, channel int8) error
	ControlChange(controller, value, channel int8) error
	Close() error
}

// Server accepts remote control connections and drives the output sinks.
type Server interface {
	// Serve blocks accepting connections until ctx is done or Close is called.
	Serve(ctx context.Context) error
	// Addr returns the bound listening address.
	Addr() net.Addr
	// Close stops the listener, drops every connection and cancels all running gestures.
	Close() error
}
