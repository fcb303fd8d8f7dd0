//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"unsafe"

	"github.com/leandrodaf/vpadserver/internal/midi/midiout"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"golang.org/x/sys/windows"
)

// HMIDIOUT is a winmm output device handle.
type HMIDIOUT windows.Handle

const CALLBACK_NULL = 0x00000000 // No callback, output only

// Struct representing MIDI output device capabilities (MIDIOUTCAPSW)
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// ListOutputs lists the winmm output devices, e.g. loopMIDI ports
func ListOutputs() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			Index:        int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// NewOutputSink opens the output device chosen by opts
func NewOutputSink(opts *contracts.OutputOptions) (contracts.OutputSink, error) {
	devices, err := ListOutputs()
	if err != nil {
		return nil, err
	}
	deviceID, err := midiout.Select(devices, opts.PortName, opts.PortIndex)
	if err != nil {
		opts.Logger.Error("No usable MIDI output", opts.Logger.Field().Error("error", err))
		return nil, err
	}

	var handle HMIDIOUT
	r1, _, callErr := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(deviceID),
		0,
		0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		return nil, fmt.Errorf("%w: failed to open MIDI device %d: %v", midiout.ErrInvalidOutput, deviceID, callErr)
	}
	opts.Logger.Info(fmt.Sprintf("MIDI device %d opened", deviceID))

	return midiout.New(
		func(msg []byte) error { return shortMsg(handle, msg) },
		func() error { return closeDevice(handle) },
	), nil
}

// shortMsg packs a channel message into the DWORD midiOutShortMsg expects:
// status in the low byte, then the data bytes.
func shortMsg(handle HMIDIOUT, msg []byte) error {
	var packed uint32
	for i, b := range msg {
		if i > 2 {
			break
		}
		packed |= uint32(b) << (8 * i)
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(handle), uintptr(packed))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed (%d): %v", r1, err)
	}
	return nil
}

// closeDevice silences the device and releases it
func closeDevice(handle HMIDIOUT) error {
	if r1, _, err := procMidiOutReset.Call(uintptr(handle)); r1 != 0 {
		return fmt.Errorf("midiOutReset failed: %v", err)
	}
	if r1, _, err := procMidiOutClose.Call(uintptr(handle)); r1 != 0 {
		return fmt.Errorf("midiOutClose failed: %v", err)
	}
	return nil
}
