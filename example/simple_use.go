package main

import (
	"bufio"
	"net"
	"os"
	"time"

	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/internal/pattern"
	"github.com/leandrodaf/vpadserver/internal/protocol"
)

// A minimal pad: introduces itself, taps a note, then holds an arpeggio for two seconds.
func main() {
	log := logger.NewZapLogger()

	addr := "127.0.0.1:1236"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	conn, err := net.DialTimeout("tcp", addr, 3*time.Second)
	if err != nil {
		log.Error("Failed to connect to server", log.Field().String("address", addr), log.Field().Error("error", err))
		return
	}
	defer conn.Close()

	if err := send(conn, protocol.Handshake{Name: "simple-pad", Platform: "example"}); err != nil {
		log.Error("Failed to send handshake", log.Field().Error("error", err))
		return
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 512), protocol.MaxFrameSize)
	sc.Split(protocol.SplitFrames)
	if !sc.Scan() {
		log.Error("Server closed before replying", log.Field().Error("error", sc.Err()))
		return
	}
	reply, _, err := protocol.Decode(sc.Bytes())
	if err != nil {
		log.Error("Unreadable reply", log.Field().Error("error", err))
		return
	}
	if hs, ok := reply.(protocol.Handshake); ok {
		log.Info("Connected", log.Field().String("server", hs.Name), log.Field().String("platform", hs.Platform))
	}

	note := protocol.Midi{Note: 60, Velocity: 100, State: protocol.StateBegin, Channel: 1}
	arp := protocol.Arp{
		Note:               48,
		Velocity:           110,
		State:              protocol.StateBegin,
		Method:             int8(pattern.MethodUpDown),
		Rate:               int8(pattern.Rate1_16),
		SwingPct:           10,
		VoiceCount:         4,
		VelocityAutomation: int8(pattern.AutomationUp),
		DynamicPct:         60,
		BPM:                120,
		Channel:            1,
	}

	steps := []struct {
		msg  protocol.Message
		hold time.Duration
	}{
		{note, 250 * time.Millisecond},
		{protocol.Midi{Note: 60, State: protocol.StateEnd, Channel: 1}, 100 * time.Millisecond},
		{arp, 2 * time.Second},
		{protocol.Arp{Note: 48, State: protocol.StateEnd, Channel: 1}, 0},
	}
	for _, s := range steps {
		if err := send(conn, s.msg); err != nil {
			log.Error("Failed to send message", log.Field().Error("error", err))
			return
		}
		time.Sleep(s.hold)
	}

	log.Info("Done")
}

func send(conn net.Conn, msg protocol.Message) error {
	frame, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	_, err = conn.Write(frame)
	return err
}
