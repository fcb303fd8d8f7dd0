package gesture

import (
	"errors"

	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/pulse"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

var (
	// ErrInvalidTempo is returned for gestures with a non-positive bpm.
	ErrInvalidTempo = errors.New("tempo must be positive")
	// ErrInvalidRate is returned for arpeggios with an unknown rate.
	ErrInvalidRate = errors.New("unknown arpeggio rate")
	// ErrInvalidVoiceCount is returned for arpeggios without voices.
	ErrInvalidVoiceCount = errors.New("voice count must be positive")
)

// Manager starts and stops arpeggio and chord gestures. Arpeggios and chords are tracked
// apart, so a chord on a note never takes over the entry of an arpeggio on the same note.
type Manager struct {
	arps      *Registry
	chords    *Registry
	out       *output.Output
	log       contracts.Logger
	pulseOpts []pulse.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithPulseOptions passes opts to every pulse generator the manager builds.
func WithPulseOptions(opts ...pulse.Option) Option {
	return func(m *Manager) {
		m.pulseOpts = append(m.pulseOpts, opts...)
	}
}

// NewManager returns a manager playing on out.
func NewManager(out *output.Output, log contracts.Logger, opts ...Option) *Manager {
	m := &Manager{
		arps:   NewRegistry(log),
		chords: NewRegistry(log),
		out:    out,
		log:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Running returns the number of registered gestures.
func (m *Manager) Running() int {
	return m.arps.Len() + m.chords.Len()
}

// Close stops every gesture and waits for their goroutines.
func (m *Manager) Close() {
	m.arps.Close()
	m.chords.Close()
}
