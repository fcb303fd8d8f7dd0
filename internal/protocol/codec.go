package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	headerSize = 2
	// MaxFrameSize is the largest frame the 16-bit length header can describe.
	MaxFrameSize = headerSize + math.MaxUint16
	// MaxStringLen is the longest string a single length byte can prefix.
	MaxStringLen = math.MaxUint8
)

var (
	// ErrIncomplete means the buffer does not hold a whole frame yet; retry with more bytes.
	ErrIncomplete = errors.New("incomplete message")
	// ErrUnknownOpcode is returned for opcodes this server does not speak.
	ErrUnknownOpcode = errors.New("unsupported message opcode")
	// ErrMalformed is returned when a frame is shorter than its variant's fields.
	ErrMalformed = errors.New("malformed message")
	// ErrFieldTooLong is returned when a string does not fit its 8-bit length prefix.
	ErrFieldTooLong = errors.New("field too long")
)

// FrameLength returns the size of the first frame in buf, header included,
// or ErrIncomplete if buf does not contain all of it yet.
func FrameLength(buf []byte) (int, error) {
	if len(buf) < headerSize {
		return 0, ErrIncomplete
	}
	n := int(binary.BigEndian.Uint16(buf))
	if n > len(buf)-headerSize {
		return 0, ErrIncomplete
	}
	return headerSize + n, nil
}

// Decode parses the first frame in buf. It returns the message and the number of bytes
// the frame occupies. buf is never modified; on ErrIncomplete nothing is consumed.
func Decode(buf []byte) (Message, int, error) {
	n, err := FrameLength(buf)
	if err != nil {
		return nil, 0, err
	}
	msg, err := decodePayload(buf[headerSize:n])
	if err != nil {
		return nil, n, err
	}
	return msg, n, nil
}

// SplitFrames is a bufio.SplitFunc yielding one whole frame per token.
func SplitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	n, err := FrameLength(data)
	if errors.Is(err, ErrIncomplete) {
		if atEOF && len(data) > 0 {
			return 0, nil, fmt.Errorf("%w: %d trailing bytes", io.ErrUnexpectedEOF, len(data))
		}
		return 0, nil, nil
	}
	return n, data[:n], nil
}

func decodePayload(payload []byte) (Message, error) {
	r := fieldReader{buf: payload}
	op := Opcode(r.i8())
	if r.err != nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var msg Message
	switch op {
	case OpHandshake:
		msg = Handshake{Name: r.str(), Platform: r.str()}
	case OpMidi:
		msg = Midi{Note: r.i8(), Velocity: r.i8(), State: r.i8(), Channel: r.i8()}
	case OpArp:
		msg = Arp{
			Note:               r.i8(),
			Velocity:           r.i8(),
			State:              r.i8(),
			Method:             r.i8(),
			Rate:               r.i8(),
			SwingPct:           r.i8(),
			VoiceCount:         r.i8(),
			VelocityAutomation: r.i8(),
			DynamicPct:         r.i16(),
			BPM:                r.i16(),
			Channel:            r.i8(),
		}
	case OpChord:
		msg = Chord{
			Note:        r.i8(),
			Velocity:    r.i8(),
			State:       r.i8(),
			BPM:         r.i16(),
			ChordType:   r.i8(),
			ChordLevel:  r.i8(),
			Transpose:   r.i8(),
			ArpDelayPct: r.i8(),
			Channel:     r.i8(),
		}
	case OpPitchWheel:
		msg = PitchWheel{Pos: r.i8(), PrevPos: r.i8(), Channel: r.i8()}
	case OpControlChange:
		msg = ControlChange{Controller: r.i8(), Value: r.i8(), Channel: r.i8()}
	case OpTransport:
		msg = Transport{Operation: r.i8(), State: r.i8(), AutoClose: r.i8()}
	case OpMixerTrack:
		msg = MixerTrack{TrackIndex: r.i8(), State: r.i8(), Value: r.i8()}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, op)
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: opcode %d: %v", ErrMalformed, op, r.err)
	}
	return msg, nil
}

// Encode serializes msg into a complete frame.
func Encode(msg Message) ([]byte, error) {
	return AppendFrame(nil, msg)
}

// AppendFrame appends the framed encoding of msg to dst.
func AppendFrame(dst []byte, msg Message) ([]byte, error) {
	start := len(dst)
	dst = append(dst, 0, 0, byte(msg.Opcode()))
	dst, err := msg.appendFields(dst)
	if err != nil {
		return dst[:start], err
	}
	n := len(dst) - start - headerSize
	if n > math.MaxUint16 {
		return dst[:start], fmt.Errorf("%w: payload of %d bytes", ErrFieldTooLong, n)
	}
	binary.BigEndian.PutUint16(dst[start:], uint16(n))
	return dst, nil
}

func (m Handshake) appendFields(dst []byte) ([]byte, error) {
	dst, err := appendString(dst, m.Name)
	if err != nil {
		return dst, fmt.Errorf("name: %w", err)
	}
	dst, err = appendString(dst, m.Platform)
	if err != nil {
		return dst, fmt.Errorf("platform: %w", err)
	}
	return dst, nil
}

func (m Midi) appendFields(dst []byte) ([]byte, error) {
	return append(dst, byte(m.Note), byte(m.Velocity), byte(m.State), byte(m.Channel)), nil
}

func (m Arp) appendFields(dst []byte) ([]byte, error) {
	dst = append(dst,
		byte(m.Note), byte(m.Velocity), byte(m.State), byte(m.Method),
		byte(m.Rate), byte(m.SwingPct), byte(m.VoiceCount), byte(m.VelocityAutomation))
	dst = binary.BigEndian.AppendUint16(dst, uint16(m.DynamicPct))
	dst = binary.BigEndian.AppendUint16(dst, uint16(m.BPM))
	return append(dst, byte(m.Channel)), nil
}

func (m Chord) appendFields(dst []byte) ([]byte, error) {
	dst = append(dst, byte(m.Note), byte(m.Velocity), byte(m.State))
	dst = binary.BigEndian.AppendUint16(dst, uint16(m.BPM))
	return append(dst,
		byte(m.ChordType), byte(m.ChordLevel), byte(m.Transpose),
		byte(m.ArpDelayPct), byte(m.Channel)), nil
}

func (m PitchWheel) appendFields(dst []byte) ([]byte, error) {
	return append(dst, byte(m.Pos), byte(m.PrevPos), byte(m.Channel)), nil
}

func (m ControlChange) appendFields(dst []byte) ([]byte, error) {
	return append(dst, byte(m.Controller), byte(m.Value), byte(m.Channel)), nil
}

func (m Transport) appendFields(dst []byte) ([]byte, error) {
	return append(dst, byte(m.Operation), byte(m.State), byte(m.AutoClose)), nil
}

func (m MixerTrack) appendFields(dst []byte) ([]byte, error) {
	return append(dst, byte(m.TrackIndex), byte(m.State), byte(m.Value)), nil
}

func appendString(dst []byte, s string) ([]byte, error) {
	if len(s) > MaxStringLen {
		return dst, fmt.Errorf("%w: %d bytes", ErrFieldTooLong, len(s))
	}
	dst = append(dst, byte(len(s)))
	return append(dst, s...), nil
}

// fieldReader reads fixed-width fields, remembering the first short read.
type fieldReader struct {
	buf []byte
	off int
	err error
}

func (r *fieldReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("need %d bytes at offset %d, have %d", n, r.off, len(r.buf))
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *fieldReader) i8() int8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int8(b[0])
}

func (r *fieldReader) i16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.BigEndian.Uint16(b))
}

func (r *fieldReader) str() string {
	b := r.take(1)
	if b == nil {
		return ""
	}
	return string(r.take(int(b[0])))
}
