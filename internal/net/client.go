package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// ErrServer wraps error replies sent by the server.
var ErrServer = errors.New("server error")

// Client sends requests to a panlab server over one connection.
type Client struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
}

// Dial connects to a server.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return NewClient(conn), nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends msg and reads replies until the final one, which it returns.
// Progress messages are passed to onProgress when it is set. An error reply
// is returned as an error wrapping ErrServer.
func (c *Client) Do(msg ClientMessage, onProgress func(ProgressView)) (ServerMessage, error) {
	if err := c.enc.Encode(msg); err != nil {
		return ServerMessage{}, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	for {
		var reply ServerMessage
		if err := c.dec.Decode(&reply); err != nil {
			return ServerMessage{}, fmt.Errorf("read message: %w", err)
		}
		if !reply.Final() {
			if onProgress != nil && reply.Progress != nil {
				onProgress(*reply.Progress)
			}
			continue
		}
		if reply.Type == TypeError {
			return reply, fmt.Errorf("%w: %s", ErrServer, reply.Error)
		}
		return reply, nil
	}
}

// Query dials addr, sends one request and returns the final reply.
func Query(ctx context.Context, addr string, msg ClientMessage, onProgress func(ProgressView)) (ServerMessage, error) {
	c, err := Dial(ctx, addr)
	if err != nil {
		return ServerMessage{}, err
	}
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	}
	return c.Do(msg, onProgress)
}

// RenderProgress formats a progress message as one line.
func RenderProgress(w io.Writer, p ProgressView) {
	fmt.Fprintf(w, "shard %d/%d done (%d/%d trials)\n", p.Shard+1, p.Shards, p.Done, p.Total)
}

// RenderMessage prints a final reply in human-readable form.
func RenderMessage(w io.Writer, msg ServerMessage) {
	switch msg.Type {
	case TypeResult:
		renderResult(w, msg.RunID, msg.Result)
	case TypeTrace:
		renderTrace(w, msg.Trace)
	case TypeLayouts:
		for _, l := range msg.Layouts {
			fmt.Fprintf(w, "%2d) %-20s %3d cards, %d amoebas\n", l.Number, l.Name, l.Cards, l.Amoebas)
		}
	case TypeError:
		fmt.Fprintf(w, "error: %s\n", msg.Error)
	}
}

func renderResult(w io.Writer, runID string, rv *ResultView) {
	if rv == nil {
		return
	}
	fmt.Fprintf(w, "run %s: %s, %d trials, seed %d, %d workers\n", runID, rv.Layout, rv.Trials, rv.Seed, rv.Workers)
	fmt.Fprintf(w, "rules: %s\n", rv.Rules)
	for _, s := range rv.Shares {
		fmt.Fprintf(w, "  %-22s %7.2f%% ±%.2f%%\n", s.Label, s.Probability*100, s.StdErr*100)
	}
}

func renderTrace(w io.Writer, tv *TraceView) {
	if tv == nil {
		return
	}
	fmt.Fprintf(w, "trace %s: %s from %d (%s)\n", tv.Layout, tv.Target, tv.Start, tv.Direction)
	for _, e := range tv.Events {
		kind := e.Type + strings.Repeat(" ", max(0, 10-len(e.Type)))
		fmt.Fprintf(w, "#%-3d @%-3d %s| %s\n", e.Step, e.Index, kind, e.Details)
	}
	if tv.Matched {
		fmt.Fprintf(w, "matched %s at %d\n", tv.Card, tv.Index)
	} else {
		fmt.Fprintln(w, "no match")
	}
}
