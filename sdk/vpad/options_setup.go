package vpad

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/vpadserver/internal/gesture"
	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/internal/pulse"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// Defaults used when an option is not provided.
const (
	DefaultListenAddress = contracts.DefaultListenAddress
	DefaultServerName    = "VPadServer"
)

// ErrNoOutputSink is returned when the server is built without an instrument sink.
var ErrNoOutputSink = errors.New("an instrument output sink is required")

// DefaultPlatform describes the running platform in handshake replies.
func DefaultPlatform() string {
	return fmt.Sprintf("%s %s Go", runtime.GOOS, runtime.GOARCH)
}

// applyDefaultOptions sets default values for ServerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ServerOptions.
//
// Returns:
//   - contracts.ServerOptions: A structure containing the finalized server options with defaults applied.
//   - error: ErrNoOutputSink when no instrument sink was given.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ServerOptions, error) {
	options := &contracts.ServerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.InstrumentSink == nil {
		return contracts.ServerOptions{}, ErrNoOutputSink
	}
	if options.ControlSink == nil {
		options.ControlSink = options.InstrumentSink
	}
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.ListenAddress == "" {
		options.ListenAddress = DefaultListenAddress
	}
	if options.ServerName == "" {
		options.ServerName = DefaultServerName
	}
	if options.ServerPlatform == "" {
		options.ServerPlatform = DefaultPlatform()
	}
	if options.PulseCheckInterval <= 0 {
		options.PulseCheckInterval = pulse.DefaultCheckInterval
	}
	if options.RampStep <= 0 {
		options.RampStep = gesture.DefaultRampStep
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
