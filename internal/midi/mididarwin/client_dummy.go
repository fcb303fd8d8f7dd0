//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// ErrUnavailable is returned on platforms without CoreMIDI.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

func ListOutputs() ([]contracts.DeviceInfo, error) {
	return nil, ErrUnavailable
}

func NewOutputSink(opts *contracts.OutputOptions) (contracts.OutputSink, error) {
	opts.Logger.Warn("NewOutputSink called on dummy CoreMIDI driver")
	return nil, ErrUnavailable
}
