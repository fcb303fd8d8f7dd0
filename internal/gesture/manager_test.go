package gesture

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/output/outputtest"
	"github.com/leandrodaf/vpadserver/internal/pattern"
	"github.com/leandrodaf/vpadserver/internal/protocol"
)

func newTestManager() (*Manager, *outputtest.Recorder) {
	rec := &outputtest.Recorder{}
	log := logger.NewNopLogger()
	return NewManager(output.New(rec, log), log), rec
}

// fastArp plays a 1/64 note every 12.5ms.
func fastArp(state int8) protocol.Arp {
	return protocol.Arp{
		Note:       60,
		Velocity:   100,
		State:      state,
		Method:     int8(pattern.MethodUp),
		Rate:       int8(pattern.Rate1_64),
		VoiceCount: 3,
		DynamicPct: 100,
		BPM:        300,
		Channel:    2,
	}
}

func TestArpAlternatesAndReleasesLastNote(t *testing.T) {
	m, rec := newTestManager()

	if err := m.Arp("peer#60", fastArp(protocol.StateBegin)); err != nil {
		t.Fatal(err)
	}
	rec.WaitFor(8, time.Second)
	if err := m.Arp("peer#60", fastArp(protocol.StateEnd)); err != nil {
		t.Fatal(err)
	}
	m.Close()

	events := rec.Events()
	if len(events) < 8 {
		t.Fatalf("expected at least 8 events, got %v", events)
	}
	if len(events)%2 != 0 {
		t.Fatalf("every note on needs its note off: %v", events)
	}

	wantNotes := []int8{60, 72, 84}
	for i := 0; i < len(events); i += 2 {
		on, off := events[i], events[i+1]
		if on.Kind != outputtest.NoteOn || off.Kind != outputtest.NoteOff {
			t.Fatalf("events %d/%d are not an on/off pair: %v %v", i, i+1, on, off)
		}
		if on.Value != off.Value {
			t.Fatalf("released %d but %d was sounding", off.Value, on.Value)
		}
		if want := wantNotes[(i/2)%3]; on.Value != want {
			t.Fatalf("note %d = %d, want %d", i/2, on.Value, want)
		}
		if on.Data != 100 || off.Data != 0 || on.Channel != 2 {
			t.Fatalf("unexpected velocity or channel: %v %v", on, off)
		}
	}
}

func TestArpRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*protocol.Arp)
		want   error
	}{
		{"zero bpm", func(a *protocol.Arp) { a.BPM = 0 }, ErrInvalidTempo},
		{"negative bpm", func(a *protocol.Arp) { a.BPM = -10 }, ErrInvalidTempo},
		{"unknown rate", func(a *protocol.Arp) { a.Rate = 42 }, ErrInvalidRate},
		{"no voices", func(a *protocol.Arp) { a.VoiceCount = 0 }, ErrInvalidVoiceCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newTestManager()
			defer m.Close()

			msg := fastArp(protocol.StateBegin)
			tt.mutate(&msg)
			if err := m.Arp("peer#60", msg); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if m.Running() != 0 || rec.Len() != 0 {
				t.Fatal("an invalid gesture must not start")
			}
		})
	}
}

func TestArpRestartWithoutStopOrphansPreviousTask(t *testing.T) {
	m, rec := newTestManager()

	_ = m.Arp("peer#60", fastArp(protocol.StateBegin))
	_ = m.Arp("peer#60", fastArp(protocol.StateBegin))
	if m.Running() != 1 {
		t.Fatalf("expected one registered gesture, got %d", m.Running())
	}

	_ = m.Arp("peer#60", fastArp(protocol.StateEnd))
	if m.Running() != 0 {
		t.Fatalf("stop should remove the entry, got %d", m.Running())
	}

	// The orphan keeps playing until the manager closes.
	before := rec.Len()
	after := rec.WaitFor(before+4, time.Second)
	if len(after) < before+4 {
		t.Fatal("orphaned arpeggio stopped playing")
	}
	m.Close()
}

func TestChordStrumsVoicesInOrder(t *testing.T) {
	m, rec := newTestManager()
	defer m.Close()

	msg := protocol.Chord{
		Note:        60,
		Velocity:    90,
		State:       protocol.StateBegin,
		BPM:         600,
		ChordType:   int8(pattern.ChordMajor),
		ChordLevel:  pattern.LevelTriad,
		ArpDelayPct: 30,
		Channel:     1,
	}
	if err := m.Chord("peer#60", msg); err != nil {
		t.Fatal(err)
	}
	rec.WaitFor(3, time.Second)

	// The strum ends by itself after the last voice.
	deadline := time.Now().Add(time.Second)
	for m.Running() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if m.Running() != 0 {
		t.Fatal("strum should end after its last voice")
	}

	want := []outputtest.Event{
		{Kind: outputtest.NoteOn, Value: 60, Data: 90, Channel: 1},
		{Kind: outputtest.NoteOn, Value: 64, Data: 90, Channel: 1},
		{Kind: outputtest.NoteOn, Value: 67, Data: 90, Channel: 1},
	}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChordEndReleasesEveryVoice(t *testing.T) {
	m, rec := newTestManager()
	defer m.Close()

	// A slow strum: the end message arrives before most voices sounded.
	start := protocol.Chord{
		Note:        60,
		Velocity:    90,
		State:       protocol.StateBegin,
		BPM:         30,
		ChordType:   int8(pattern.ChordMinor),
		ChordLevel:  pattern.LevelSeventh,
		Transpose:   1,
		ArpDelayPct: 100,
		Channel:     3,
	}
	if err := m.Chord("peer#60", start); err != nil {
		t.Fatal(err)
	}
	rec.WaitFor(1, time.Second)

	end := start
	end.State = protocol.StateEnd
	if err := m.Chord("peer#60", end); err != nil {
		t.Fatal(err)
	}

	// minor 7th [0 3 7 10] inverted once is [-2 0 3 7]
	var offs []outputtest.Event
	for _, e := range rec.Events() {
		if e.Kind == outputtest.NoteOff {
			offs = append(offs, e)
		}
	}
	want := []outputtest.Event{
		{Kind: outputtest.NoteOff, Value: 58, Data: 0, Channel: 3},
		{Kind: outputtest.NoteOff, Value: 60, Data: 0, Channel: 3},
		{Kind: outputtest.NoteOff, Value: 63, Data: 0, Channel: 3},
		{Kind: outputtest.NoteOff, Value: 67, Data: 0, Channel: 3},
	}
	if !reflect.DeepEqual(offs, want) {
		t.Fatalf("got %v, want %v", offs, want)
	}
	if first := rec.Events()[0]; first.Kind != outputtest.NoteOn || first.Value != 58 {
		t.Fatalf("first voice should be the inverted seventh, got %v", first)
	}

	// Nothing may sound once the release started.
	time.Sleep(50 * time.Millisecond)
	released := false
	for _, e := range rec.Events() {
		released = released || e.Kind == outputtest.NoteOff
		if released && e.Kind == outputtest.NoteOn {
			t.Fatalf("voice %d sounded after the chord was released: %v", e.Value, rec.Events())
		}
	}
}

func TestChordOnArpNoteLeavesArpStoppable(t *testing.T) {
	m, rec := newTestManager()
	defer m.Close()

	if err := m.Arp("peer#60", fastArp(protocol.StateBegin)); err != nil {
		t.Fatal(err)
	}
	chord := protocol.Chord{
		Note:       60,
		Velocity:   90,
		State:      protocol.StateBegin,
		BPM:        120,
		ChordType:  int8(pattern.ChordMajor),
		ChordLevel: pattern.LevelTriad,
		Channel:    1,
	}
	if err := m.Chord("peer#60", chord); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for m.Running() != 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if m.Running() != 1 {
		t.Fatalf("strum should have ended, %d gestures running", m.Running())
	}

	if err := m.Arp("peer#60", fastArp(protocol.StateEnd)); err != nil {
		t.Fatal(err)
	}
	if m.Running() != 0 {
		t.Fatalf("arp end should stop the arpeggio, %d gestures running", m.Running())
	}

	// Let the final release land, then the output must stay quiet.
	time.Sleep(50 * time.Millisecond)
	before := rec.Len()
	time.Sleep(100 * time.Millisecond)
	if after := rec.Len(); after != before {
		t.Fatalf("arpeggio kept playing after its end message: %d new events", after-before)
	}
}

func TestChordRejectsInvalidTempo(t *testing.T) {
	m, _ := newTestManager()
	defer m.Close()

	err := m.Chord("peer#60", protocol.Chord{Note: 60, State: protocol.StateBegin, BPM: 0})
	if !errors.Is(err, ErrInvalidTempo) {
		t.Fatalf("expected ErrInvalidTempo, got %v", err)
	}
}

func TestStrumInterval(t *testing.T) {
	if got := strumInterval(120, 60, 3); got != 100*time.Millisecond {
		t.Fatalf("got %v", got)
	}
	if got := strumInterval(120, -20, 3); got != 0 {
		t.Fatalf("negative delay should clamp to zero, got %v", got)
	}
}
