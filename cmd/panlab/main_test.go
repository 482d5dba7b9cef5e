package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/logging"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

const ringText = `# two-color ring
lab red
evolution pattern
amoeba red dot single
amoeba red strip single
vent
lab blue
amoeba blue strip double
`

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeRing(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}
}

func TestSimulateCmd(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	out, err := execute(t, "simulate", ring, "--trials", "2000", "--seed", "4", "--workers", "2", "--no-plot")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Layout:  ring (7 cards, 3 amoebas)", "2,000", "seed: 4", "red dot single", "blue strip double"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimulateCmdWritesImages(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	dir := t.TempDir()
	pie := filepath.Join(dir, "pie.png")
	board := filepath.Join(dir, "board.png")

	if _, err := execute(t, "simulate", ring, "-n", "300", "--pie", pie, "--board", board); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{pie, board} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", path, err)
		}
	}
}

func TestSimulateCmdJSON(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	out, err := execute(t, "simulate", ring, "--json", "-n", "500", "--seed", "9", "--no-plot")
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		RunID  string `json:"run_id"`
		Result struct {
			Trials int `json:"trials"`
			Seed   uint64
			Shares []struct {
				Label string `json:"label"`
			} `json:"shares"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if payload.RunID == "" || payload.Result.Trials != 500 || len(payload.Result.Shares) != 4 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestSimulateCmdRejectsBadRule(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	if _, err := execute(t, "simulate", ring, "--imprint", "sideways", "--no-plot"); err == nil {
		t.Error("expected error for unknown imprint rule")
	}
}

func TestTraceCmd(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	out, err := execute(t, "trace", ring, "--target", "red strip single")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Imprint") || !strings.Contains(out, "Result: Amoeba(red dot single) at 2") {
		t.Errorf("trace output:\n%s", out)
	}
}

func TestValidateCmd(t *testing.T) {
	good := writeRing(t, "good.txt", ringText)
	bad := writeRing(t, "bad.txt", "amoeba red dot single\n")

	out, err := execute(t, "validate", good)
	if err != nil {
		t.Fatalf("validate good: %v", err)
	}
	if !strings.HasPrefix(out, "ok") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "validate", good, bad)
	if err == nil {
		t.Error("expected error when a layout is invalid")
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("output = %q", out)
	}
}

func TestTraceCmdIgnoresConfiguredBothDirection(t *testing.T) {
	ring := writeRing(t, "ring.txt", ringText)
	cfgFile := writeRing(t, "panlab.yaml", "rules:\n  direction: both\n")

	out, err := execute(t, "trace", ring, "--config", cfgFile, "--target", "red strip single")
	if err != nil {
		t.Fatalf("trace with direction both in config: %v", err)
	}
	if !strings.Contains(out, "Result: Amoeba(red dot single) at 2") {
		t.Errorf("trace output:\n%s", out)
	}

	if _, err := execute(t, "trace", ring, "--target", "red strip single", "--direction", "both"); err == nil {
		t.Error("expected error for an explicit --direction both")
	}
}

func TestQueryCmdReturnsServerError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	layouts := writeRing(t, "layouts.yaml", "layouts:\n  - name: starter\n    cards:\n      - card: lab red\n      - card: amoeba red dot single\n")
	cfg := config.Default()
	cfg.Server.Layouts = layouts
	srv := &pnet.Server{Runner: pnet.NewRunner(cfg, logging.Nop()), Logger: logging.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	out, err := execute(t, "query", "simulate", "--addr", ln.Addr().String(), "--layout", "missing", "--trials", "10")
	if !errors.Is(err, pnet.ErrServer) || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want the server's message wrapped in ErrServer", err)
	}
	if !strings.Contains(out, "error:") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "query", "layouts", "--addr", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "starter") {
		t.Errorf("layouts output = %q", out)
	}
}
