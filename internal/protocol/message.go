// Package protocol defines the messages exchanged with remote pads and their binary framing.
//
// A frame is [payload length: uint16 big-endian][opcode: int8][fields...] where the payload
// length counts the opcode byte and every field byte. Numeric fields are signed 8-bit unless
// noted, strings carry an 8-bit length prefix.
package protocol

// Opcode identifies the message variant on the wire.
type Opcode int8

const (
	OpHandshake     Opcode = 1
	OpMidi          Opcode = 2
	OpArp           Opcode = 3
	OpChord         Opcode = 4
	OpPitchWheel    Opcode = 5
	OpControlChange Opcode = 7
	OpTransport     Opcode = 8
	OpMixerTrack    Opcode = 9
)

// State values shared by every stateful variant.
const (
	StateEnd   int8 = 0
	StateBegin int8 = 1
)

// Message is one decoded frame. The set of implementations is closed to this package;
// consumers handle every variant through Visitor.
type Message interface {
	Opcode() Opcode
	// Accept calls the Visitor method matching the concrete variant.
	Accept(v Visitor) (Message, error)

	appendFields(dst []byte) ([]byte, error)
}

// Visitor handles each message variant and may return a reply.
// Adding a variant adds a method here, so every consumer fails to compile until it handles it.
type Visitor interface {
	VisitHandshake(Handshake) (Message, error)
	VisitMidi(Midi) (Message, error)
	VisitArp(Arp) (Message, error)
	VisitChord(Chord) (Message, error)
	VisitPitchWheel(PitchWheel) (Message, error)
	VisitControlChange(ControlChange) (Message, error)
	VisitTransport(Transport) (Message, error)
	VisitMixerTrack(MixerTrack) (Message, error)
}

// Handshake introduces a client, and the server answers with its own identity.
type Handshake struct {
	Name     string
	Platform string
}

// Midi is a single direct note event.
type Midi struct {
	Note     int8
	Velocity int8
	State    int8
	Channel  int8
}

// Arp starts or stops an arpeggiator gesture rooted at Note.
type Arp struct {
	Note               int8
	Velocity           int8
	State              int8
	Method             int8
	Rate               int8
	SwingPct           int8
	VoiceCount         int8
	VelocityAutomation int8
	DynamicPct         int16
	BPM                int16
	Channel            int8
}

// Chord starts (strums) or releases a chord rooted at Note.
type Chord struct {
	Note        int8
	Velocity    int8
	State       int8
	BPM         int16
	ChordType   int8
	ChordLevel  int8
	Transpose   int8
	ArpDelayPct int8
	Channel     int8
}

// PitchWheel moves the wheel from PrevPos to Pos.
type PitchWheel struct {
	Pos     int8
	PrevPos int8
	Channel int8
}

// ControlChange forwards a continuous-controller value.
type ControlChange struct {
	Controller int8
	Value      int8
	Channel    int8
}

// Transport triggers a DAW transport operation (play, stop, record...).
type Transport struct {
	Operation int8
	State     int8
	AutoClose int8
}

// MixerTrack changes the fader, solo, mute or record state of a mixer track.
type MixerTrack struct {
	TrackIndex int8
	State      int8
	Value      int8
}

func (Handshake) Opcode() Opcode     { return OpHandshake }
func (Midi) Opcode() Opcode          { return OpMidi }
func (Arp) Opcode() Opcode           { return OpArp }
func (Chord) Opcode() Opcode         { return OpChord }
func (PitchWheel) Opcode() Opcode    { return OpPitchWheel }
func (ControlChange) Opcode() Opcode { return OpControlChange }
func (Transport) Opcode() Opcode     { return OpTransport }
func (MixerTrack) Opcode() Opcode    { return OpMixerTrack }

func (m Handshake) Accept(v Visitor) (Message, error)     { return v.VisitHandshake(m) }
func (m Midi) Accept(v Visitor) (Message, error)          { return v.VisitMidi(m) }
func (m Arp) Accept(v Visitor) (Message, error)           { return v.VisitArp(m) }
func (m Chord) Accept(v Visitor) (Message, error)         { return v.VisitChord(m) }
func (m PitchWheel) Accept(v Visitor) (Message, error)    { return v.VisitPitchWheel(m) }
func (m ControlChange) Accept(v Visitor) (Message, error) { return v.VisitControlChange(m) }
func (m Transport) Accept(v Visitor) (Message, error)     { return v.VisitTransport(m) }
func (m MixerTrack) Accept(v Visitor) (Message, error)    { return v.VisitMixerTrack(m) }

// Begins reports whether the message starts the gesture.
func (m Midi) Begins() bool  { return m.State == StateBegin }
func (m Arp) Begins() bool   { return m.State == StateBegin }
func (m Chord) Begins() bool { return m.State == StateBegin }
