// Package midiport opens outputs of the registered gomidi driver (rtmidi on Linux) as sinks.
package midiport

import (
	"fmt"

	"github.com/leandrodaf/vpadserver/internal/midi/midiout"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ListOutputs returns the output ports of the registered driver.
func ListOutputs() ([]contracts.DeviceInfo, error) {
	return describe(midi.GetOutPorts()), nil
}

// NewOutputSink opens the output selected by opts on the registered driver.
func NewOutputSink(opts *contracts.OutputOptions) (contracts.OutputSink, error) {
	ports := midi.GetOutPorts()
	idx, err := midiout.Select(describe(ports), opts.PortName, opts.PortIndex)
	if err != nil {
		return nil, err
	}
	return Open(ports[idx], opts.Logger)
}

// Open turns an already known port into a sink. The port is opened if needed and closed with
// the sink.
func Open(out drivers.Out, log contracts.Logger) (contracts.OutputSink, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", midiout.ErrInvalidOutput, out.String(), err)
	}
	log.Info("MIDI output opened",
		log.Field().Int("port", out.Number()),
		log.Field().String("name", out.String()),
	)
	return midiout.New(
		func(msg []byte) error { return send(midi.Message(msg)) },
		out.Close,
	), nil
}

func describe(ports []drivers.Out) []contracts.DeviceInfo {
	infos := make([]contracts.DeviceInfo, len(ports))
	for i, p := range ports {
		infos[i] = contracts.DeviceInfo{
			Index:      i,
			Name:       p.String(),
			EntityName: p.String(),
		}
	}
	return infos
}
