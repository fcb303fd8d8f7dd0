//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// ErrUnavailable is returned on platforms without winmm.
var ErrUnavailable = errors.New("winmm is not available on this platform")

// ListOutputs returns an error indicating that winmm is unavailable on this platform.
func ListOutputs() ([]contracts.DeviceInfo, error) {
	return nil, ErrUnavailable
}

// NewOutputSink logs a warning and returns an error indicating that winmm is unavailable on this platform.
func NewOutputSink(opts *contracts.OutputOptions) (contracts.OutputSink, error) {
	opts.Logger.Warn("NewOutputSink called on dummy winmm driver")
	return nil, ErrUnavailable
}
