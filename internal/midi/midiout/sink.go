// Package midiout holds the output sink shared by every platform driver: it turns performance
// events into MIDI 1.0 messages and hands their bytes to a driver-specific writer.
package midiout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

var (
	// ErrClosed is returned by sends on a closed sink.
	ErrClosed = errors.New("midi output closed")
	// ErrNoOutputs is returned when the platform reports no MIDI outputs.
	ErrNoOutputs = errors.New("no MIDI outputs found")
	// ErrInvalidOutput is returned when the requested output does not exist.
	ErrInvalidOutput = errors.New("invalid MIDI output")
)

// pitchCenter is the 14-bit pitch-bend value of a wheel at rest.
const pitchCenter = 8192

// WriteFunc delivers one complete MIDI message to the device.
type WriteFunc func(msg []byte) error

// Sink implements contracts.OutputSink. Calls are serialized; each one holds the lock for a
// single message only.
type Sink struct {
	mu     sync.Mutex
	write  WriteFunc
	close  func() error
	closed bool
}

var _ contracts.OutputSink = (*Sink)(nil)

// New returns a sink writing through write. closeFn, if not nil, releases the device.
func New(write WriteFunc, closeFn func() error) *Sink {
	return &Sink{write: write, close: closeFn}
}

func (s *Sink) NoteOn(note, velocity, channel int8) error {
	return s.send(midi.NoteOn(Channel(channel), data(note), data(velocity)))
}

func (s *Sink) NoteOff(note, velocity, channel int8) error {
	return s.send(midi.NoteOffVelocity(Channel(channel), data(note), data(velocity)))
}

// PitchBend scales pos by 128 into the absolute range 0..16383. Negative positions bend
// fully down.
func (s *Sink) PitchBend(pos, channel int8) error {
	return s.send(midi.Pitchbend(Channel(channel), BendValue(pos)))
}

func (s *Sink) ControlChange(controller, value, channel int8) error {
	return s.send(midi.ControlChange(Channel(channel), data(controller), data(value)))
}

// Close releases the device. Further sends fail with ErrClosed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *Sink) send(msg midi.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.write(msg.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", msg, err)
	}
	return nil
}

// Channel maps a 1-based wire channel onto the 0-based MIDI channel. Values outside 1..16
// select the first channel.
func Channel(ch int8) uint8 {
	if ch < 1 || ch > 16 {
		return 0
	}
	return uint8(ch - 1)
}

// BendValue converts a signed 8-bit wheel position into the value midi.Pitchbend expects,
// relative to the center.
func BendValue(pos int8) int16 {
	abs := int(max(pos, 0)) * 128
	return int16(abs - pitchCenter)
}

func data(v int8) uint8 {
	return uint8(max(v, 0))
}

// Select returns the index of the output named name, or index when name is empty.
func Select(outputs []contracts.DeviceInfo, name string, index int) (int, error) {
	if len(outputs) == 0 {
		return 0, ErrNoOutputs
	}
	if name != "" {
		for _, o := range outputs {
			if o.Name == name {
				return o.Index, nil
			}
		}
		return 0, fmt.Errorf("%w: no output named %q", ErrInvalidOutput, name)
	}
	if index < 0 || index >= len(outputs) {
		return 0, fmt.Errorf("%w: index %d, %d outputs", ErrInvalidOutput, index, len(outputs))
	}
	return index, nil
}
