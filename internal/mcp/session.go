package mcp

import (
	"encoding/json"
	"fmt"

	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

// Session holds the state shared by the tools of one stdio process: the
// runner and the finished runs an agent can refer back to.
type Session struct {
	runner *pnet.Runner
	runs   *pnet.RunStore
}

// NewSession creates a session backed by runner.
func NewSession(runner *pnet.Runner) *Session {
	return &Session{runner: runner, runs: pnet.NewRunStore(pnet.DefaultRunLimit)}
}

// ToolResponse is the JSON envelope returned by the run tools.
type ToolResponse struct {
	RunID  string           `json:"run_id,omitempty"`
	Result *pnet.ResultView `json:"result,omitempty"`
	Trace  *pnet.TraceView  `json:"trace,omitempty"`
	Top    string           `json:"top,omitempty"` // most likely archetype
}

func newRunResponse(run *pnet.Run) *ToolResponse {
	resp := &ToolResponse{RunID: run.ID, Result: run.View}
	best := -1.0
	for _, s := range run.View.Shares {
		if !s.NoMatch && s.Probability > best {
			best = s.Probability
			resp.Top = s.Label
		}
	}
	return resp
}

// respondJSON marshals a tool payload to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
