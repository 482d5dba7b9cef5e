package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

// RegisterTools adds all panlab tools to the MCP server.
func RegisterTools(s *server.MCPServer, sess *Session) {
	s.AddTool(listLayoutsTool(), sess.handleListLayouts)
	s.AddTool(simulateLayoutTool(), sess.handleSimulateLayout)
	s.AddTool(traceHuntTool(), sess.handleTraceHunt)
	s.AddTool(getRunTool(), sess.handleGetRun)
}

// --- Tool definitions ---

func listLayoutsTool() mcp.Tool {
	return mcp.NewTool("list_layouts",
		mcp.WithDescription("List the card-ring layouts available in the server's layouts file, with card and amoeba counts. Read-only."),
	)
}

func simulateLayoutTool() mcp.Tool {
	return mcp.NewTool("simulate_layout",
		mcp.WithDescription("Estimate by Monte Carlo simulation how often each amoeba archetype is the answer of a Panic Lab hunt on a ring. "+
			"Select a layout by name or number, or pass an inline layout. Returns per-archetype probabilities with standard errors and a run_id."),
		mcp.WithString("layout", mcp.Description("Layout name or 1-based number from list_layouts (default: the first layout)")),
		mcp.WithString("cards", mcp.Description("Inline layout, one card per line (e.g. 'lab red\\namoeba red dot single'). Overrides layout.")),
		mcp.WithNumber("trials", mcp.Description("Number of simulated hunts (default from server config)")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible run (0 or omitted = random)")),
		mcp.WithNumber("workers", mcp.Description("Parallel shards (default from server config)")),
		mcp.WithString("imprint", mcp.Description("Evolution rule: 'next' (copy from the next amoeba ahead) or 'rotate'")),
		mcp.WithString("labs", mcp.Description("Start lab choice: 'uniform' or 'first'")),
		mcp.WithString("direction", mcp.Description("Walking direction: 'cw', 'ccw' or 'both'")),
	)
}

func traceHuntTool() mcp.Tool {
	return mcp.NewTool("trace_hunt",
		mcp.WithDescription("Walk one hunt step by step and return every visited card, imprint and the final outcome."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target amoeba as 'color pattern eye', e.g. 'red dot single'")),
		mcp.WithString("layout", mcp.Description("Layout name or 1-based number (default: the first layout)")),
		mcp.WithString("cards", mcp.Description("Inline layout, one card per line. Overrides layout.")),
		mcp.WithNumber("start", mcp.Description("Ring index to start from (default: first lab of the target color)")),
		mcp.WithString("imprint", mcp.Description("Evolution rule: 'next' or 'rotate'")),
		mcp.WithString("direction", mcp.Description("Walking direction: 'cw' or 'ccw'")),
	)
}

func getRunTool() mcp.Tool {
	return mcp.NewTool("get_run",
		mcp.WithDescription("Fetch the result of an earlier simulate_layout call by run_id. Read-only."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("run_id returned by simulate_layout")),
	)
}

// --- Tool handlers ---

func (sess *Session) handleListLayouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layouts, err := sess.runner.Layouts()
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to list layouts: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(layouts)), nil
}

func (sess *Session) handleSimulateLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := requestFromArgs(request)
	req.Trials = request.GetInt("trials", 0)
	req.Workers = request.GetInt("workers", 0)
	if req.Trials < 0 {
		return mcp.NewToolResultError("trials must be positive, or 0 for the server default"), nil
	}
	seed := request.GetInt("seed", 0)
	if seed < 0 {
		return mcp.NewToolResultError("seed must be positive, or 0 for a random seed"), nil
	}
	req.Seed = uint64(seed)
	req.Labs = request.GetString("labs", "")

	run, err := sess.runner.Simulate(ctx, req, nil)
	if err != nil {
		return mcp.NewToolResultErrorf("Simulation failed: %v", err), nil
	}
	sess.runs.Put(run)
	return mcp.NewToolResultText(respondJSON(newRunResponse(run))), nil
}

func (sess *Session) handleTraceHunt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := requestFromArgs(request)
	req.Target = request.GetString("target", "")
	if strings.TrimSpace(req.Target) == "" {
		return mcp.NewToolResultError("target is required, e.g. 'red dot single'"), nil
	}
	if start := request.GetInt("start", -1); start >= 0 {
		req.Start = &start
	}

	tv, err := sess.runner.Trace(req)
	if err != nil {
		return mcp.NewToolResultErrorf("Trace failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(&ToolResponse{Trace: tv})), nil
}

func (sess *Session) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	run, err := sess.runs.Get(request.GetString("run_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v. Runs are kept for the last %d simulations.", err, pnet.DefaultRunLimit), nil
	}
	return mcp.NewToolResultText(respondJSON(newRunResponse(run))), nil
}

// requestFromArgs reads the arguments shared by the run tools.
func requestFromArgs(request mcp.CallToolRequest) pnet.Request {
	req := pnet.Request{
		Layout:    request.GetString("layout", ""),
		Imprint:   request.GetString("imprint", ""),
		Direction: request.GetString("direction", ""),
	}
	if cards := strings.TrimSpace(request.GetString("cards", "")); cards != "" {
		req.Cards = strings.Split(cards, "\n")
	}
	return req
}
