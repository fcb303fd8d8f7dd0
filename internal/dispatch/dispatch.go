// Package dispatch routes decoded pad messages to the output sinks and the gesture engine.
package dispatch

import (
	"fmt"
	"time"

	"github.com/leandrodaf/vpadserver/internal/control"
	"github.com/leandrodaf/vpadserver/internal/gesture"
	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/internal/pulse"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// Config holds what a Dispatcher needs. Control defaults to Instrument.
type Config struct {
	Instrument         contracts.OutputSink
	Control            contracts.OutputSink
	DAW                contracts.DAW
	Identity           protocol.Handshake
	PulseCheckInterval time.Duration
	RampStep           time.Duration
	Logger             contracts.Logger
}

// Dispatcher owns the state shared by every connection: the gesture registry, the pitch ramp
// and the control-surface mappings.
type Dispatcher struct {
	identity  protocol.Handshake
	out       *output.Output
	gestures  *gesture.Manager
	ramp      *gesture.Ramp
	transport *control.Transport
	mixer     *control.Mixer
	log       contracts.Logger
}

// New builds a Dispatcher from cfg.
func New(cfg Config) *Dispatcher {
	ctl := cfg.Control
	if ctl == nil {
		ctl = cfg.Instrument
	}
	out := output.New(cfg.Instrument, cfg.Logger)
	ctlOut := output.New(ctl, cfg.Logger)

	return &Dispatcher{
		identity: cfg.Identity,
		out:      out,
		gestures: gesture.NewManager(out, cfg.Logger,
			gesture.WithPulseOptions(pulse.WithCheckInterval(cfg.PulseCheckInterval))),
		ramp:      gesture.NewRamp(out, cfg.RampStep),
		transport: control.NewTransport(ctlOut, cfg.DAW),
		mixer:     control.NewMixer(ctlOut),
		log:       cfg.Logger,
	}
}

// Peer returns the Visitor handling messages from the connection at addr.
func (d *Dispatcher) Peer(addr string) *Peer {
	return &Peer{d: d, addr: addr}
}

// Running returns the number of registered arpeggio and chord gestures.
func (d *Dispatcher) Running() int {
	return d.gestures.Running()
}

// Close stops every gesture and pitch ramp and waits for them.
func (d *Dispatcher) Close() {
	d.ramp.Close()
	d.gestures.Close()
}

// Peer dispatches the messages of one connection. Gestures are keyed by the peer address and
// base note, so two pads never stop each other's gestures.
type Peer struct {
	d    *Dispatcher
	addr string
}

var _ protocol.Visitor = (*Peer)(nil)

// GestureID returns the identifier of the gesture rooted at note.
func (p *Peer) GestureID(note int8) string {
	return fmt.Sprintf("%s#%d", p.addr, note)
}

func (p *Peer) VisitHandshake(m protocol.Handshake) (protocol.Message, error) {
	log := p.d.log
	log.Info("Pad connected",
		log.Field().String("peer", p.addr),
		log.Field().String("name", m.Name),
		log.Field().String("platform", m.Platform),
	)
	return p.d.identity, nil
}

func (p *Peer) VisitMidi(m protocol.Midi) (protocol.Message, error) {
	if m.Begins() {
		p.d.out.NoteOn(int(m.Note), int(m.Velocity), int(m.Channel))
	} else {
		p.d.out.NoteOff(int(m.Note), int(m.Velocity), int(m.Channel))
	}
	return nil, nil
}

func (p *Peer) VisitArp(m protocol.Arp) (protocol.Message, error) {
	p.drop("arp", p.d.gestures.Arp(p.GestureID(m.Note), m))
	return nil, nil
}

func (p *Peer) VisitChord(m protocol.Chord) (protocol.Message, error) {
	p.drop("chord", p.d.gestures.Chord(p.GestureID(m.Note), m))
	return nil, nil
}

func (p *Peer) VisitPitchWheel(m protocol.PitchWheel) (protocol.Message, error) {
	p.d.ramp.MoveTo(int(m.PrevPos), int(m.Pos), int(m.Channel))
	return nil, nil
}

func (p *Peer) VisitControlChange(m protocol.ControlChange) (protocol.Message, error) {
	p.d.out.ControlChange(int(m.Controller), int(m.Value), int(m.Channel))
	return nil, nil
}

func (p *Peer) VisitTransport(m protocol.Transport) (protocol.Message, error) {
	p.drop("transport", p.d.transport.Handle(m))
	return nil, nil
}

func (p *Peer) VisitMixerTrack(m protocol.MixerTrack) (protocol.Message, error) {
	p.drop("mixer track", p.d.mixer.Handle(m))
	return nil, nil
}

// drop logs a message that could not be applied. Invalid gestures never end the connection.
func (p *Peer) drop(kind string, err error) {
	if err == nil {
		return
	}
	log := p.d.log
	log.Error("Dropping "+kind+" message",
		log.Field().String("peer", p.addr),
		log.Field().Error("error", err),
	)
}
