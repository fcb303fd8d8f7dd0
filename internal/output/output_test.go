package output

import (
	"errors"
	"reflect"
	"testing"

	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/internal/output/outputtest"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOutputDropsUnplayableNotes(t *testing.T) {
	rec := &outputtest.Recorder{}
	out := New(rec, logger.NewNopLogger())

	out.NoteOn(-1, 100, 1)
	out.NoteOn(128, 100, 1)
	out.NoteOff(-12, 0, 1)
	out.Tap(-1, 127, 1)
	out.ControlChange(-3, 10, 1)
	out.NoteOn(60, 100, 2)

	want := []outputtest.Event{{Kind: outputtest.NoteOn, Value: 60, Data: 100, Channel: 2}}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOutputClampsData(t *testing.T) {
	rec := &outputtest.Recorder{}
	out := New(rec, logger.NewNopLogger())

	out.NoteOn(60, 300, 1)
	out.NoteOff(60, -5, 1)
	out.ControlChange(7, 200, 1)
	out.PitchBend(400, 3)
	out.PitchBend(-400, 3)

	want := []outputtest.Event{
		{Kind: outputtest.NoteOn, Value: 60, Data: 127, Channel: 1},
		{Kind: outputtest.NoteOff, Value: 60, Data: 0, Channel: 1},
		{Kind: outputtest.ControlChange, Value: 7, Data: 127, Channel: 1},
		{Kind: outputtest.PitchBend, Value: 127, Channel: 3},
		{Kind: outputtest.PitchBend, Value: -128, Channel: 3},
	}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOutputTapSendsOnThenOff(t *testing.T) {
	rec := &outputtest.Recorder{}
	New(rec, logger.NewNopLogger()).Tap(94, 127, 1)

	want := []outputtest.Event{
		{Kind: outputtest.NoteOn, Value: 94, Data: 127, Channel: 1},
		{Kind: outputtest.NoteOff, Value: 94, Data: 127, Channel: 1},
	}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOutputLogsSinkErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &outputtest.Recorder{Err: errors.New("device unplugged")}
	out := New(rec, logger.NewWithCore(core))

	out.NoteOn(60, 100, 1)
	out.NoteOn(62, 100, 1)

	if rec.Len() != 2 {
		t.Fatalf("both sends should still be attempted, got %d", rec.Len())
	}
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(errs) != 2 {
		t.Fatalf("expected 2 logged errors, got %d", len(errs))
	}
	if got := errs[0].ContextMap()["error"]; got != "device unplugged" {
		t.Fatalf("error field = %v", got)
	}
}
