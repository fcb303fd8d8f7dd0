// Package outputtest provides an in-memory contracts.OutputSink for tests.
package outputtest

import (
	"fmt"
	"sync"
	"time"
)

// Kind names the sink call an Event records.
type Kind string

const (
	NoteOn        Kind = "on"
	NoteOff       Kind = "off"
	PitchBend     Kind = "bend"
	ControlChange Kind = "cc"
)

// Event is one recorded sink call. Value holds the note, controller or wheel position and
// Data the velocity or controller value.
type Event struct {
	Kind    Kind
	Value   int8
	Data    int8
	Channel int8
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d,%d)@%d", e.Kind, e.Value, e.Data, e.Channel)
}

// Recorder stores every call it receives. Setting Err makes every call fail after recording.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
	Err    error
}

func (r *Recorder) add(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) NoteOn(note, velocity, channel int8) error {
	return r.add(Event{NoteOn, note, velocity, channel})
}

func (r *Recorder) NoteOff(note, velocity, channel int8) error {
	return r.add(Event{NoteOff, note, velocity, channel})
}

func (r *Recorder) PitchBend(pos, channel int8) error {
	return r.add(Event{PitchBend, pos, 0, channel})
}

func (r *Recorder) ControlChange(controller, value, channel int8) error {
	return r.add(Event{ControlChange, controller, value, channel})
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WaitFor polls until at least n events were recorded or timeout expires, and returns the
// events seen.
func (r *Recorder) WaitFor(n int, timeout time.Duration) []Event {
	deadline := time.Now().Add(timeout)
	for r.Len() < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return r.Events()
}
