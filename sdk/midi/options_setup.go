package midi

import (
	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// DefaultClientName is registered with the platform MIDI service when none is given.
const DefaultClientName = "VPadServer"

// applyDefaultOptions sets default values for OutputOptions if not explicitly provided.
//
// opts ...contracts.OutputOption: A variadic list of option functions that can modify OutputOptions.
//
// Returns:
//   - contracts.OutputOptions: A structure containing the finalized output options with defaults applied.
func applyDefaultOptions(opts ...contracts.OutputOption) contracts.OutputOptions {
	options := &contracts.OutputOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.ClientName == "" {
		options.ClientName = DefaultClientName
	}
	return *options
}
