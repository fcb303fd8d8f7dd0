package contracts

import "time"

// DefaultListenAddress is where the server listens unless configured otherwise.
const DefaultListenAddress = "0.0.0.0:1236"

// ServerOptions defines the configuration options for the performance server.
type ServerOptions struct {
	Logger             Logger        // Logger for logging events and errors.
	LogLevel           LogLevel      // Level of logging to use.
	ListenAddress      string        // TCP address the server binds to.
	InstrumentSink     OutputSink    // Receives notes, pitch and controller changes.
	ControlSink        OutputSink    // Receives transport and mixer-track messages.
	TargetDAW          DAW           // Control-surface mapping used for transport operations.
	ServerName         string        // Name returned in the handshake reply.
	ServerPlatform     string        // Platform returned in the handshake reply.
	PulseCheckInterval time.Duration // Polling granularity of the pulse scheduler.
	RampStep           time.Duration // Delay between two pitch-ramp steps.
}

// Option is a function that modifies ServerOptions.
type Option func(*ServerOptions)

// WithLogger sets the logger for the server.
func WithLogger(l Logger) Option {
	return func(opts *ServerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the server.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ServerOptions) {
		opts.LogLevel = level
	}
}

// WithListenAddress sets the TCP address to listen on, e.g. "0.0.0.0:1236".
func WithListenAddress(addr string) Option {
	return func(opts *ServerOptions) {
		opts.ListenAddress = addr
	}
}

// WithInstrumentSink sets the sink that plays notes, arpeggios, chords and pitch ramps.
func WithInstrumentSink(sink OutputSink) Option {
	return func(opts *ServerOptions) {
		opts.InstrumentSink = sink
	}
}

// WithControlSink sets the sink used for DAW transport and mixer control.
// When omitted the instrument sink is used.
func WithControlSink(sink OutputSink) Option {
	return func(opts *ServerOptions) {
		opts.ControlSink = sink
	}
}

// WithTargetDAW selects the control-surface mapping for transport messages.
func WithTargetDAW(daw DAW) Option {
	return func(opts *ServerOptions) {
		opts.TargetDAW = daw
	}
}

// WithServerIdentity sets the name and platform announced in handshake replies.
func WithServerIdentity(name, platform string) Option {
	return func(opts *ServerOptions) {
		opts.ServerName = name
		opts.ServerPlatform = platform
	}
}

// WithPulseCheckInterval sets how often pulse schedulers poll the clock.
func WithPulseCheckInterval(d time.Duration) Option {
	return func(opts *ServerOptions) {
		opts.PulseCheckInterval = d
	}
}

// WithRampStep sets the delay between consecutive pitch-ramp positions.
func WithRampStep(d time.Duration) Option {
	return func(opts *ServerOptions) {
		opts.RampStep = d
	}
}

// OutputOptions configures how an output sink is opened.
type OutputOptions struct {
	Logger     Logger // Logger for driver events.
	ClientName string // Name registered with the platform MIDI service.
	PortName   string // Output selected by name; takes precedence over PortIndex.
	PortIndex  int    // Output selected by position in the driver's list.
}

// OutputOption is a function that modifies OutputOptions.
type OutputOption func(*OutputOptions)

// WithOutputLogger sets the logger used by the output driver.
func WithOutputLogger(l Logger) OutputOption {
	return func(opts *OutputOptions) {
		opts.Logger = l
	}
}

// WithClientName sets the client name registered with the MIDI service.
func WithClientName(name string) OutputOption {
	return func(opts *OutputOptions) {
		opts.ClientName = name
	}
}

// WithPortName selects the output port by exact name.
func WithPortName(name string) OutputOption {
	return func(opts *OutputOptions) {
		opts.PortName = name
	}
}

// WithPortIndex selects the output port by its index in ListOutputs.
func WithPortIndex(idx int) OutputOption {
	return func(opts *OutputOptions) {
		opts.PortIndex = idx
	}
}
