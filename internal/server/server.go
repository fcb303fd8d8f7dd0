// Package server accepts pad connections and feeds their frames to the dispatcher.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/leandrodaf/vpadserver/internal/dispatch"
	"github.com/leandrodaf/vpadserver/internal/protocol"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"go.uber.org/multierr"
)

// replyBacklog is how many replies may wait for the writer before the reader blocks.
const replyBacklog = 16

// Server is a TCP listener speaking the pad protocol. Every connection gets a reader and a
// writer goroutine; gestures they start belong to the shared dispatcher and outlive the
// connection until stopped.
type Server struct {
	ln   net.Listener
	disp *dispatch.Dispatcher
	log  contracts.Logger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// Listen binds addr and returns a server ready to Serve.
func Listen(addr string, disp *dispatch.Dispatcher, log contracts.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(ln, disp, log), nil
}

// New returns a server accepting connections from ln.
func New(ln net.Listener, disp *dispatch.Dispatcher, log contracts.Logger) *Server {
	return &Server{
		ln:    ln,
		disp:  disp,
		log:   log,
		conns: make(map[net.Conn]struct{}),
	}
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until ctx is done or Close is called, then returns nil.
// Any other accept failure is returned.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	s.log.Info("Listening for pads", s.log.Field().String("addr", s.ln.Addr().String()))
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		if !s.track(nc) {
			_ = nc.Close()
			return nil
		}
		go s.handle(nc)
	}
}

// Close stops accepting, drops every connection, and stops all gestures.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		err := ignoreClosed(s.ln.Close())
		for nc := range s.conns {
			err = multierr.Append(err, ignoreClosed(nc.Close()))
		}
		s.mu.Unlock()

		s.wg.Wait()
		s.disp.Close()
		s.closeErr = err
	})
	return s.closeErr
}

func ignoreClosed(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(nc net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[nc] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(nc net.Conn) {
	s.mu.Lock()
	delete(s.conns, nc)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Server) handle(nc net.Conn) {
	defer s.untrack(nc)
	defer nc.Close()

	peer := nc.RemoteAddr().String()
	log := s.log
	session := log.Field().String("session", uuid.NewString())
	peerField := log.Field().String("peer", peer)
	log.Info("Connection accepted", session, peerField)

	replies := make(chan protocol.Message, replyBacklog)
	written := make(chan struct{})
	go func() {
		defer close(written)
		s.write(nc, replies, session)
	}()

	err := s.read(nc, s.disp.Peer(peer), replies)
	close(replies)
	<-written

	if err != nil && !s.isClosed() {
		log.Error("Connection aborted", session, peerField, log.Field().Error("error", err))
		return
	}
	log.Info("Connection closed", session, peerField)
}

// read decodes frames until EOF or the first error. Decode errors end the connection.
func (s *Server) read(nc net.Conn, v protocol.Visitor, replies chan<- protocol.Message) error {
	sc := bufio.NewScanner(nc)
	sc.Buffer(make([]byte, 0, 1024), protocol.MaxFrameSize)
	sc.Split(protocol.SplitFrames)

	for sc.Scan() {
		msg, _, err := protocol.Decode(sc.Bytes())
		if err != nil {
			return err
		}
		reply, err := msg.Accept(v)
		if err != nil {
			return err
		}
		if reply != nil {
			replies <- reply
		}
	}
	return sc.Err()
}

// write sends replies in order. After a failed write the rest are discarded so the reader
// never blocks on a dead connection.
func (s *Server) write(nc net.Conn, replies <-chan protocol.Message, session contracts.Field) {
	var failed bool
	for msg := range replies {
		if failed {
			continue
		}
		frame, err := protocol.Encode(msg)
		if err == nil {
			_, err = nc.Write(frame)
		}
		if err != nil {
			failed = true
			s.log.Error("Failed to write reply", session, s.log.Field().Error("error", err))
			_ = nc.Close()
		}
	}
}
