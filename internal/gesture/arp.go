package gesture

import (
	"context"
	"fmt"

	"github.com/leandrodaf/vpadserver/internal/output"
	"github.com/leandrodaf/vpadserver/internal/pattern"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/internal/pulse"
)

type arpeggio struct {
	out        *output.Output
	notes      *pattern.Cycle[int]
	velocities *pattern.Cycle[int]
	pulse      *pulse.Generator
	channel    int
}

// Arp starts the arpeggio described by msg under id, or stops it when msg ends the gesture.
func (m *Manager) Arp(id string, msg protocol.Arp) error {
	if !msg.Begins() {
		m.arps.Stop(id)
		return nil
	}

	a, err := m.newArpeggio(msg)
	if err != nil {
		return fmt.Errorf("arp %s: %w", id, err)
	}
	m.log.Debug("Starting arpeggio",
		m.log.Field().String("gesture", id),
		m.log.Field().String("method", pattern.Method(msg.Method).String()),
		m.log.Field().String("rate", pattern.Rate(msg.Rate).String()),
		m.log.Field().Int("bpm", int(msg.BPM)),
	)
	return m.arps.Start(id, a.run)
}

func (m *Manager) newArpeggio(msg protocol.Arp) (*arpeggio, error) {
	rate := pattern.Rate(msg.Rate)
	switch {
	case msg.BPM <= 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidTempo, msg.BPM)
	case !rate.Valid():
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, msg.Rate)
	case msg.VoiceCount <= 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidVoiceCount, msg.VoiceCount)
	}

	notes, err := pattern.BuildNotes(int(msg.Note), pattern.Method(msg.Method), int(msg.VoiceCount))
	if err != nil {
		return nil, err
	}
	velocities, err := pattern.BuildVelocities(int(msg.Velocity), pattern.Automation(msg.VelocityAutomation),
		int(msg.DynamicPct), rate.AutomationSpan(), nil)
	if err != nil {
		return nil, err
	}
	intervals := pattern.SwingIntervals(rate.Interval(int(msg.BPM)), int(msg.SwingPct))
	gen, err := pulse.New(intervals, m.pulseOpts...)
	if err != nil {
		return nil, err
	}

	return &arpeggio{
		out:        m.out,
		notes:      notes,
		velocities: velocities,
		pulse:      gen,
		channel:    int(msg.Channel),
	}, nil
}

// run plays one note per pulse. The previous note is always released before the next one
// sounds, and the last one is released when the arpeggio ends.
func (a *arpeggio) run(ctx context.Context) {
	stop := context.AfterFunc(ctx, a.pulse.Stop)
	defer stop()

	last, sounding := 0, false
	defer func() {
		if sounding {
			a.out.NoteOff(last, 0, a.channel)
		}
	}()

	for range a.pulse.Ticks() {
		if sounding {
			a.out.NoteOff(last, 0, a.channel)
			sounding = false
		}
		if ctx.Err() != nil {
			return
		}
		last = a.notes.Next()
		a.out.NoteOn(last, a.velocities.Next(), a.channel)
		sounding = true
	}
}
