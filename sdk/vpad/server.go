// Package vpad builds the performance server: a TCP endpoint for remote pads driving MIDI
// output sinks.
package vpad

import (
	"context"
	"net"

	"github.com/leandrodaf/vpadserver/internal/dispatch"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/internal/server"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"go.uber.org/multierr"
)

// NewServer binds the listening socket and returns a server ready to Serve.
// The server owns the sinks and closes them on Close.
//
// opts ...contracts.Option: A variadic list of option functions to customize the server.
//
// Returns:
//   - contracts.Server: The bound server.
//   - error: ErrNoOutputSink, or the error from binding the address.
func NewServer(opts ...contracts.Option) (contracts.Server, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	disp := dispatch.New(dispatch.Config{
		Instrument:         options.InstrumentSink,
		Control:            options.ControlSink,
		DAW:                options.TargetDAW,
		Identity:           protocol.Handshake{Name: options.ServerName, Platform: options.ServerPlatform},
		PulseCheckInterval: options.PulseCheckInterval,
		RampStep:           options.RampStep,
		Logger:             options.Logger,
	})

	srv, err := server.Listen(options.ListenAddress, disp, options.Logger)
	if err != nil {
		disp.Close()
		return nil, err
	}

	options.Logger.Info("Performance server ready",
		options.Logger.Field().String("addr", srv.Addr().String()),
		options.Logger.Field().String("daw", options.TargetDAW.String()),
	)
	return &vpadServer{srv: srv, options: options}, nil
}

type vpadServer struct {
	srv     *server.Server
	options contracts.ServerOptions
}

func (s *vpadServer) Serve(ctx context.Context) error {
	return s.srv.Serve(ctx)
}

func (s *vpadServer) Addr() net.Addr {
	return s.srv.Addr()
}

// Close stops the server, then closes the sinks once each.
func (s *vpadServer) Close() error {
	err := s.srv.Close()
	err = multierr.Append(err, s.options.InstrumentSink.Close())
	if s.options.ControlSink != s.options.InstrumentSink {
		err = multierr.Append(err, s.options.ControlSink.Close())
	}
	return err
}
