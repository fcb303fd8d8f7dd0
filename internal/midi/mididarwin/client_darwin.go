//go:build darwin
// +build darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/vpadserver/internal/midi/midiout"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// ListOutputs returns the CoreMIDI destinations, e.g. the IAC buses.
func ListOutputs() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	return describe(destinations), nil
}

// NewOutputSink creates a CoreMIDI client with an output port and binds it to the destination
// chosen by opts.
func NewOutputSink(opts *contracts.OutputOptions) (contracts.OutputSink, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	idx, err := midiout.Select(describe(destinations), opts.PortName, opts.PortIndex)
	if err != nil {
		opts.Logger.Error("No usable MIDI destination", opts.Logger.Field().Error("error", err))
		return nil, err
	}

	client, err := coremidi.NewClient(opts.ClientName)
	if err != nil {
		return nil, err
	}
	port, err := coremidi.NewOutputPort(client, opts.ClientName+" Out")
	if err != nil {
		return nil, fmt.Errorf("error creating output port: %w", err)
	}

	dest := destinations[idx]
	opts.Logger.Info("MIDI destination selected",
		opts.Logger.Field().Int("deviceID", idx),
		opts.Logger.Field().String("deviceName", dest.Name()))

	return midiout.New(func(msg []byte) error {
		packet := coremidi.NewPacket(msg, 0)
		return packet.Send(&port, &dest)
	}, nil), nil
}

func describe(destinations []coremidi.Destination) []contracts.DeviceInfo {
	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, d := range destinations {
		entity := d.Entity()
		devices[i] = contracts.DeviceInfo{
			Index:        i,
			Name:         d.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices
}
