package net

import (
	"github.com/Arash1381-y/PanicLabSim/internal/game"
	"github.com/Arash1381-y/PanicLabSim/internal/log"
)

// Message types for the JSON-lines protocol over TCP. The web and MCP front
// ends reuse Request and the view types.

// Message type names.
const (
	TypeSimulate = "simulate"
	TypeTrace    = "trace"
	TypeLayouts  = "layouts"
	TypeProgress = "progress"
	TypeResult   = "result"
	TypeError    = "error"
)

// --- Client → Server messages ---

// Request selects a ring and the parameters of a run or trace.
type Request struct {
	// Layout is a layout name or 1-based number in the server's layouts file.
	// Ignored when Cards is set.
	Layout string `json:"layout,omitempty"`

	// Cards is an inline layout, one card line per entry.
	Cards []string `json:"cards,omitempty"`

	// For "simulate"
	Trials  int    `json:"trials,omitempty"`
	Seed    uint64 `json:"seed,omitempty"` // 0 picks a random seed
	Workers int    `json:"workers,omitempty"`

	Imprint   string `json:"imprint,omitempty"`
	Labs      string `json:"labs,omitempty"`
	Direction string `json:"direction,omitempty"`

	// For "trace"
	Start  *int   `json:"start,omitempty"` // defaults to the first lab of the target color
	Target string `json:"target,omitempty"`
}

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`
	Request
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`

	// For "progress"
	Progress *ProgressView `json:"progress,omitempty"`

	// For "result"
	Result *ResultView `json:"result,omitempty"`

	// For "trace"
	Trace *TraceView `json:"trace,omitempty"`

	// For "layouts"
	Layouts []LayoutView `json:"layouts,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// Final reports whether msg ends a request.
func (m ServerMessage) Final() bool {
	return m.Type != TypeProgress
}

// ProgressView reports one finished shard.
type ProgressView struct {
	Shard  int `json:"shard"`
	Shards int `json:"shards"`
	Trials int `json:"trials"` // trials in this shard
	Done   int `json:"done"`   // trials finished so far
	Total  int `json:"total"`
}

// ShareView is one normalized result row.
type ShareView struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	StdErr      float64 `json:"stderr"`
	Count       int     `json:"count"`
	NoMatch     bool    `json:"no_match,omitempty"`
	Lines       []int   `json:"lines,omitempty"`
}

// ResultView is a finished estimate.
type ResultView struct {
	Layout  string      `json:"layout"`
	Cards   int         `json:"cards"`
	Trials  int         `json:"trials"`
	Seed    uint64      `json:"seed"`
	Workers int         `json:"workers"`
	Rules   string      `json:"rules"`
	Shares  []ShareView `json:"shares"`
}

// EventView is a hunt trace event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Step    int    `json:"step"`
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Target  string `json:"target"`
	Details string `json:"details"`
}

// TraceView is one fully logged hunt.
type TraceView struct {
	Layout    string      `json:"layout"`
	Start     int         `json:"start"`
	Target    string      `json:"target"`
	Direction string      `json:"direction"`
	Matched   bool        `json:"matched"`
	Index     int         `json:"index"`
	Card      string      `json:"card,omitempty"`
	Events    []EventView `json:"events"`
}

// LayoutView describes a layout in the server's layouts file.
type LayoutView struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Cards   int    `json:"cards"`
	Amoebas int    `json:"amoebas"`
}

// BuildResultView converts a finished tally into its wire form.
func BuildResultView(layout string, r *game.Ring, t *game.Tally, seed uint64, workers int, rules game.Rules) (*ResultView, error) {
	shares, err := game.Normalize(t)
	if err != nil {
		return nil, err
	}
	rv := &ResultView{
		Layout:  layout,
		Cards:   r.Len(),
		Trials:  t.Trials,
		Seed:    seed,
		Workers: workers,
		Rules:   rules.String(),
		Shares:  make([]ShareView, 0, len(shares)),
	}
	for _, s := range shares {
		rv.Shares = append(rv.Shares, ShareView{
			Label:       s.Label,
			Probability: s.Probability,
			StdErr:      s.StdErr,
			Count:       s.Count,
			NoMatch:     s.NoMatch,
			Lines:       s.Lines,
		})
	}
	return rv, nil
}

// BuildEventViews converts logged hunt events into their wire form.
func BuildEventViews(events []log.HuntEvent) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{
			Seq:     e.Seq,
			Step:    e.Step,
			Index:   e.Index,
			Type:    e.Type.String(),
			Card:    e.Card,
			Target:  e.Target,
			Details: e.Details,
		})
	}
	return views
}
