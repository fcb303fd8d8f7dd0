package gesture

import (
	"context"
	"fmt"
	"time"

	"github.com/leandrodaf/vpadserver/internal/pattern"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/internal/pulse"
)

// Chord strums the chord described by msg under id. An end message cancels a strum still in
// progress, waits for it to return, then releases every voice of the chord, sounded or not.
func (m *Manager) Chord(id string, msg protocol.Chord) error {
	voicing := chordVoicing(msg)
	note, channel := int(msg.Note), int(msg.Channel)

	if !msg.Begins() {
		m.chords.StopWait(id)
		for _, off := range voicing {
			m.out.NoteOff(note+off, 0, channel)
		}
		return nil
	}

	if msg.BPM <= 0 {
		return fmt.Errorf("chord %s: %w: %d", id, ErrInvalidTempo, msg.BPM)
	}
	interval := strumInterval(int(msg.BPM), int(msg.ArpDelayPct), len(voicing))
	opts := append([]pulse.Option{pulse.WithMaxTicks(uint64(len(voicing)))}, m.pulseOpts...)
	gen, err := pulse.New([]time.Duration{interval}, opts...)
	if err != nil {
		return fmt.Errorf("chord %s: %w", id, err)
	}

	m.log.Debug("Strumming chord",
		m.log.Field().String("gesture", id),
		m.log.Field().Int("voices", len(voicing)),
		m.log.Field().Duration("interval", interval),
	)
	velocity := int(msg.Velocity)
	return m.chords.Start(id, func(ctx context.Context) {
		stop := context.AfterFunc(ctx, gen.Stop)
		defer stop()

		for i := range gen.Ticks() {
			if ctx.Err() != nil {
				return
			}
			m.out.NoteOn(note+voicing[i], velocity, channel)
		}
	})
}

func chordVoicing(msg protocol.Chord) []int {
	v := pattern.Voicing(pattern.ChordType(msg.ChordType), int(msg.ChordLevel))
	return pattern.Transpose(v, int(msg.Transpose))
}

// strumInterval spreads the voices evenly over arpDelayPct percent of a beat.
func strumInterval(bpm, arpDelayPct, voices int) time.Duration {
	d := float64(pattern.BeatDuration(bpm)) * float64(arpDelayPct) / 100 / float64(voices)
	return max(time.Duration(d), 0)
}
