package midiout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

type capture struct {
	msgs [][]byte
	err  error
}

func (c *capture) write(msg []byte) error {
	c.msgs = append(c.msgs, append([]byte(nil), msg...))
	return c.err
}

func TestSinkEncodesMessages(t *testing.T) {
	tests := []struct {
		name string
		send func(*Sink) error
		want []byte
	}{
		{"note on", func(s *Sink) error { return s.NoteOn(60, 100, 1) }, []byte{0x90, 60, 100}},
		{"note on channel 16", func(s *Sink) error { return s.NoteOn(60, 100, 16) }, []byte{0x9F, 60, 100}},
		{"note off with velocity", func(s *Sink) error { return s.NoteOff(60, 64, 2) }, []byte{0x81, 60, 64}},
		{"out of range channel", func(s *Sink) error { return s.NoteOn(1, 1, 17) }, []byte{0x90, 1, 1}},
		{"zero channel", func(s *Sink) error { return s.NoteOn(1, 1, 0) }, []byte{0x90, 1, 1}},
		{"control change", func(s *Sink) error { return s.ControlChange(7, 90, 3) }, []byte{0xB2, 7, 90}},
		{"bend center", func(s *Sink) error { return s.PitchBend(64, 1) }, []byte{0xE0, 0x00, 0x40}},
		{"bend bottom", func(s *Sink) error { return s.PitchBend(0, 1) }, []byte{0xE0, 0x00, 0x00}},
		{"bend negative", func(s *Sink) error { return s.PitchBend(-5, 1) }, []byte{0xE0, 0x00, 0x00}},
		{"bend top", func(s *Sink) error { return s.PitchBend(127, 1) }, []byte{0xE0, 0x00, 0x7F}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &capture{}
			if err := tt.send(New(c.write, nil)); err != nil {
				t.Fatal(err)
			}
			if len(c.msgs) != 1 || !bytes.Equal(c.msgs[0], tt.want) {
				t.Fatalf("got % X, want % X", c.msgs, tt.want)
			}
		})
	}
}

func TestBendValue(t *testing.T) {
	tests := []struct {
		pos  int8
		want int16
	}{
		{0, -8192},
		{64, 0},
		{127, 8064},
		{-1, -8192},
	}
	for _, tt := range tests {
		if got := BendValue(tt.pos); got != tt.want {
			t.Errorf("BendValue(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestSinkCloseOnce(t *testing.T) {
	closes := 0
	c := &capture{}
	s := New(c.write, func() error { closes++; return nil })

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if closes != 1 {
		t.Fatalf("device closed %d times", closes)
	}
	if err := s.NoteOn(60, 1, 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSinkWrapsWriteErrors(t *testing.T) {
	boom := errors.New("unplugged")
	c := &capture{err: boom}
	if err := New(c.write, nil).NoteOn(60, 1, 1); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	outs := []contracts.DeviceInfo{
		{Index: 0, Name: "IAC Bus 1"},
		{Index: 1, Name: "loopMIDI"},
	}

	if i, err := Select(outs, "loopMIDI", 0); err != nil || i != 1 {
		t.Fatalf("by name: %d, %v", i, err)
	}
	if i, err := Select(outs, "", 0); err != nil || i != 0 {
		t.Fatalf("by index: %d, %v", i, err)
	}
	if _, err := Select(outs, "missing", 0); !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("unknown name: %v", err)
	}
	if _, err := Select(outs, "", 2); !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("bad index: %v", err)
	}
	if _, err := Select(nil, "", 0); !errors.Is(err, ErrNoOutputs) {
		t.Fatalf("no outputs: %v", err)
	}
}
