package midi

import (
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// NewOutputSink opens a MIDI output for the performance server.
// It applies default options and picks the driver of the current operating system.
//
// opts ...contracts.OutputOption: A variadic list of option functions to select the output.
//
// Returns:
//   - contracts.OutputSink: The opened output.
//   - error: ErrNoOutputs, ErrInvalidOutput, ErrUnsupportedOS or a driver error.
func NewOutputSink(opts ...contracts.OutputOption) (contracts.OutputSink, error) {
	options := applyDefaultOptions(opts...)

	d, err := driverFor(goos)
	if err != nil {
		return nil, err
	}
	return d.open(&options)
}

// ListOutputs returns the MIDI outputs the current operating system offers.
func ListOutputs() ([]contracts.DeviceInfo, error) {
	d, err := driverFor(goos)
	if err != nil {
		return nil, err
	}
	return d.list()
}
