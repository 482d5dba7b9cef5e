package net

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Arash1381-y/PanicLabSim/internal/logging"
)

// pipeClient starts HandleConn on one end of a pipe and returns a client for
// the other.
func pipeClient(t *testing.T) *Client {
	t.Helper()
	srv := &Server{Runner: newTestRunner(t), Logger: logging.Nop()}
	serverConn, clientConn := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer serverConn.Close()
		srv.HandleConn(ctx, serverConn)
	}()

	t.Cleanup(func() {
		cancel()
		clientConn.Close()
		<-done
	})
	return NewClient(clientConn)
}

func TestServerSimulate(t *testing.T) {
	c := pipeClient(t)

	var progress int
	reply, err := c.Do(ClientMessage{Type: TypeSimulate, Request: Request{Layout: "duo", Trials: 300, Seed: 5}}, func(p ProgressView) {
		progress++
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != TypeResult || reply.Result == nil {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.RunID == "" {
		t.Error("missing run id")
	}
	if progress != 2 {
		t.Errorf("got %d progress messages, want 2", progress)
	}
	if reply.Result.Layout != "duo" || reply.Result.Trials != 300 || reply.Result.Seed != 5 {
		t.Errorf("result = %+v", reply.Result)
	}

	// The connection stays open for more requests.
	reply, err = c.Do(ClientMessage{Type: TypeLayouts}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Layouts) != 2 {
		t.Errorf("layouts = %+v", reply.Layouts)
	}
}

func TestServerTrace(t *testing.T) {
	c := pipeClient(t)

	reply, err := c.Do(ClientMessage{Type: TypeTrace, Request: Request{Target: "red strip single"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Trace == nil || !reply.Trace.Matched {
		t.Fatalf("reply = %+v", reply)
	}

	var buf bytes.Buffer
	RenderMessage(&buf, reply)
	if !strings.Contains(buf.String(), "matched Amoeba(red dot single) at 2") {
		t.Errorf("rendered trace:\n%s", buf.String())
	}
}

func TestServerErrors(t *testing.T) {
	c := pipeClient(t)

	_, err := c.Do(ClientMessage{Type: "dance"}, nil)
	if !errors.Is(err, ErrServer) || !strings.Contains(err.Error(), "dance") {
		t.Errorf("error = %v", err)
	}

	reply, err := c.Do(ClientMessage{Type: TypeSimulate, Request: Request{Layout: "missing"}}, nil)
	if !errors.Is(err, ErrServer) || reply.Type != TypeError {
		t.Errorf("reply = %+v, err = %v", reply, err)
	}
}

func TestServeAndQuery(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	srv := &Server{Runner: newTestRunner(t), Logger: logging.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	qctx, qcancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer qcancel()
	reply, err := Query(qctx, ln.Addr().String(), ClientMessage{Type: TypeLayouts}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Layouts) != 2 {
		t.Errorf("layouts = %+v", reply.Layouts)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Serve returned %v", err)
	}
}
