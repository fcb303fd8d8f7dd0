package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/vpadserver/internal/midi/mididarwin"
	"github.com/leandrodaf/vpadserver/internal/midi/midiout"
	"github.com/leandrodaf/vpadserver/internal/midi/midiport"
	"github.com/leandrodaf/vpadserver/internal/midi/midiwindows"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

var (
	// ErrUnsupportedOS is returned when the operating system has no MIDI output driver.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrNoOutputs is returned when no MIDI output is available.
	ErrNoOutputs = midiout.ErrNoOutputs
	// ErrInvalidOutput is returned when the selected output does not exist or cannot be opened.
	ErrInvalidOutput = midiout.ErrInvalidOutput
)

var goos = runtime.GOOS

type driver struct {
	list func() ([]contracts.DeviceInfo, error)
	open func(*contracts.OutputOptions) (contracts.OutputSink, error)
}

// drivers maps OS names to their MIDI output driver. Linux and the BSDs go through the gomidi
// driver registered by the binary (rtmidi).
var drivers = map[string]driver{
	"darwin":  {mididarwin.ListOutputs, mididarwin.NewOutputSink},   // CoreMIDI
	"windows": {midiwindows.ListOutputs, midiwindows.NewOutputSink}, // winmm
	"linux":   {midiport.ListOutputs, midiport.NewOutputSink},
	"freebsd": {midiport.ListOutputs, midiport.NewOutputSink},
	"openbsd": {midiport.ListOutputs, midiport.NewOutputSink},
}

func driverFor(os string) (driver, error) {
	if d, ok := drivers[os]; ok {
		return d, nil
	}
	return driver{}, fmt.Errorf("%w: %s", ErrUnsupportedOS, os)
}
