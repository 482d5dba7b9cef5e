package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Server answers simulate, trace and layouts requests from TCP clients. Each
// connection carries newline-delimited JSON messages.
type Server struct {
	Port   string
	Runner *Runner
	Logger zerolog.Logger
}

// Run listens on the configured port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			s.HandleConn(ctx, conn)
		}()
	}
}

// HandleConn serves one client until it disconnects.
func (s *Server) HandleConn(ctx context.Context, conn net.Conn) {
	logger := s.Logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Info().Msg("client connected")

	dec := json.NewDecoder(conn)
	out := &sender{enc: json.NewEncoder(conn)}
	for {
		var msg ClientMessage
		if err := dec.Decode(&msg); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn().Err(err).Msg("read message")
			}
			logger.Info().Msg("client disconnected")
			return
		}
		if _, err := Dispatch(ctx, s.Runner, msg, out.send); err != nil {
			logger.Warn().Err(err).Msg("send response")
			return
		}
	}
}

// Dispatch answers one request through send. Progress messages precede the
// final reply. It only fails when send fails. A finished simulation is
// returned so callers can keep it.
func Dispatch(ctx context.Context, rn *Runner, msg ClientMessage, send func(ServerMessage) error) (*Run, error) {
	sendError := func(runID string, err error) error {
		return send(ServerMessage{Type: TypeError, RunID: runID, Error: err.Error()})
	}

	switch msg.Type {
	case TypeSimulate:
		var sendErr error
		run, err := rn.Simulate(ctx, msg.Request, func(p ProgressView) {
			if sendErr == nil {
				sendErr = send(ServerMessage{Type: TypeProgress, Progress: &p})
			}
		})
		if sendErr != nil {
			return nil, sendErr
		}
		if err != nil {
			return nil, sendError("", err)
		}
		return run, send(ServerMessage{Type: TypeResult, RunID: run.ID, Result: run.View})

	case TypeTrace:
		id := uuid.NewString()
		tv, err := rn.Trace(msg.Request)
		if err != nil {
			return nil, sendError(id, err)
		}
		return nil, send(ServerMessage{Type: TypeTrace, RunID: id, Trace: tv})

	case TypeLayouts:
		layouts, err := rn.Layouts()
		if err != nil {
			return nil, sendError("", err)
		}
		return nil, send(ServerMessage{Type: TypeLayouts, Layouts: layouts})

	default:
		return nil, sendError("", fmt.Errorf("unknown message type %q", msg.Type))
	}
}

type sender struct {
	enc *json.Encoder
	mu  sync.Mutex
}

func (s *sender) send(msg ServerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(msg)
}
