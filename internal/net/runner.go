package net

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Arash1381-y/PanicLabSim/internal/config"
	"github.com/Arash1381-y/PanicLabSim/internal/game"
	"github.com/Arash1381-y/PanicLabSim/internal/log"
)

// DefaultMaxTrials caps the trials a single remote request may ask for.
const DefaultMaxTrials = 5_000_000

var (
	ErrNoLayouts     = errors.New("no layouts file configured")
	ErrTooManyTrials = errors.New("too many trials")
)

// Runner executes requests against a layouts file. It is shared by the TCP,
// web and MCP front ends.
type Runner struct {
	LayoutsFile string
	Trials      int // used when a request leaves trials unset
	Workers     int // used when a request leaves workers unset; 0 = one per CPU
	MaxTrials   int // 0 = uncapped
	MaxWorkers  int // requests asking for more are clamped; 0 = uncapped
	Rules       config.RulesConfig
	Logger      zerolog.Logger
}

// NewRunner builds a runner from the loaded configuration.
func NewRunner(cfg config.Config, logger zerolog.Logger) *Runner {
	return &Runner{
		LayoutsFile: cfg.Server.Layouts,
		Trials:      cfg.Simulation.Trials,
		Workers:     cfg.Simulation.Workers,
		MaxTrials:   DefaultMaxTrials,
		MaxWorkers:  runtime.NumCPU(),
		Rules:       cfg.Rules,
		Logger:      logger,
	}
}

// Run is a finished estimate together with the inputs that produced it.
type Run struct {
	ID      string
	Layout  string
	Ring    *game.Ring
	Tally   *game.Tally
	Seed    uint64
	Workers int
	Rules   game.Rules
	View    *ResultView
}

// Layouts lists the layouts in the configured file.
func (rn *Runner) Layouts() ([]LayoutView, error) {
	if rn.LayoutsFile == "" {
		return nil, ErrNoLayouts
	}
	if !game.IsYAML(rn.LayoutsFile) {
		name, r, err := game.LoadRing(rn.LayoutsFile)
		if err != nil {
			return nil, err
		}
		return []LayoutView{layoutView(1, name, r)}, nil
	}

	lf, err := game.ReadLayoutFile(rn.LayoutsFile)
	if err != nil {
		return nil, err
	}
	views := make([]LayoutView, 0, len(lf.Layouts))
	for i, le := range lf.Layouts {
		cards, err := le.Expand()
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", le.Name, err)
		}
		r, err := game.Build(cards)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", le.Name, err)
		}
		views = append(views, layoutView(i+1, le.Name, r))
	}
	return views, nil
}

func layoutView(n int, name string, r *game.Ring) LayoutView {
	return LayoutView{Number: n, Name: name, Cards: r.Len(), Amoebas: len(r.AmoebaPositions())}
}

// Ring resolves the request's layout and builds its ring.
func (rn *Runner) Ring(req Request) (string, *game.Ring, error) {
	name, cards, err := rn.cards(req)
	if err != nil {
		return "", nil, err
	}
	r, err := game.Build(cards)
	if err != nil {
		return "", nil, fmt.Errorf("layout %q: %w", name, err)
	}
	return name, r, nil
}

func (rn *Runner) cards(req Request) (string, []game.Card, error) {
	if len(req.Cards) > 0 {
		cards, err := game.ParseLayoutText(strings.Join(req.Cards, "\n"))
		return "inline", cards, err
	}
	if rn.LayoutsFile == "" {
		return "", nil, ErrNoLayouts
	}
	if !game.IsYAML(rn.LayoutsFile) {
		return game.LoadLayout(rn.LayoutsFile)
	}

	sel := strings.TrimSpace(req.Layout)
	if sel == "" {
		sel = "1"
	}
	if n, err := strconv.Atoi(sel); err == nil {
		return game.LayoutByNumber(rn.LayoutsFile, n)
	}
	return game.LayoutByName(rn.LayoutsFile, sel)
}

// GameRules merges the request's rule names over the runner defaults.
func (rn *Runner) GameRules(req Request) (game.Rules, error) {
	return game.ParseRules(
		firstNonEmpty(req.Imprint, rn.Rules.Imprint),
		firstNonEmpty(req.Labs, rn.Rules.Labs),
		firstNonEmpty(req.Direction, rn.Rules.Direction),
	)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Simulate runs an estimate. onProgress, if set, is called once per finished
// shard; calls are serialized. The run stops with ctx's error once ctx is done.
func (rn *Runner) Simulate(ctx context.Context, req Request, onProgress func(ProgressView)) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, r, err := rn.Ring(req)
	if err != nil {
		return nil, err
	}
	rules, err := rn.GameRules(req)
	if err != nil {
		return nil, err
	}

	trials := req.Trials
	if trials == 0 {
		trials = rn.Trials
	}
	if trials <= 0 {
		return nil, fmt.Errorf("trials: %w", game.ErrZeroTrials)
	}
	if rn.MaxTrials > 0 && trials > rn.MaxTrials {
		return nil, fmt.Errorf("%w: %d exceeds limit %d", ErrTooManyTrials, trials, rn.MaxTrials)
	}

	workers := req.Workers
	if workers == 0 {
		workers = rn.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if rn.MaxWorkers > 0 && workers > rn.MaxWorkers {
		workers = rn.MaxWorkers
	}
	shards := len(game.ShardSizes(trials, workers))

	seed := req.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}

	id := uuid.NewString()
	logger := rn.Logger.With().Str("run_id", id).Str("layout", name).Logger()
	logger.Info().Int("trials", trials).Uint64("seed", seed).Int("workers", workers).Stringer("rules", rules).Msg("simulation started")

	var (
		mu   sync.Mutex
		done int
	)
	onShard := func(s game.Shard) {
		mu.Lock()
		defer mu.Unlock()
		done += s.Trials
		logger.Debug().Int("shard", s.Index).Int("done", done).Msg("shard finished")
		if onProgress != nil {
			onProgress(ProgressView{Shard: s.Index, Shards: shards, Trials: s.Trials, Done: done, Total: trials})
		}
	}

	tally, err := game.EstimateParallelContext(ctx, r, trials, seed, workers, rules, onShard)
	if err != nil {
		logger.Warn().Err(err).Msg("simulation stopped")
		return nil, err
	}
	view, err := BuildResultView(name, r, tally, seed, workers, rules)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("matched", tally.Matched()).Int("no_match", tally.NoMatch).Msg("simulation finished")
	return &Run{
		ID:      id,
		Layout:  name,
		Ring:    r,
		Tally:   tally,
		Seed:    seed,
		Workers: workers,
		Rules:   rules,
		View:    view,
	}, nil
}

// Trace resolves one fully logged hunt. The target is required; the start
// defaults to the first lab of the target's color.
func (rn *Runner) Trace(req Request) (*TraceView, error) {
	name, r, err := rn.Ring(req)
	if err != nil {
		return nil, err
	}
	rules, err := rn.GameRules(req)
	if err != nil {
		return nil, err
	}
	a, err := game.ParseArchetype(req.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	h, err := BuildHunt(r, a, req.Start, rules.Directions)
	if err != nil {
		return nil, err
	}

	logger := log.NewMemoryLogger()
	outcome := game.Trace(r, h, rules.Imprint, logger)

	tv := &TraceView{
		Layout:    name,
		Start:     h.Start,
		Target:    h.Target.String(),
		Direction: h.Direction.String(),
		Matched:   outcome.Matched,
		Index:     outcome.Index,
		Events:    BuildEventViews(logger.Events()),
	}
	if outcome.Matched {
		tv.Card = r.At(outcome.Index).String()
	}
	return tv, nil
}

// BuildHunt validates the start of a traced hunt. A nil start picks the first
// lab of the archetype's color.
func BuildHunt(r *game.Ring, a game.Archetype, start *int, mode game.DirectionMode) (game.Hunt, error) {
	h := game.Hunt{Target: a.Target()}

	switch mode {
	case game.DirectionsCounterClockwise:
		h.Direction = game.CounterClockwise
	case game.DirectionsBoth:
		return game.Hunt{}, errors.New("a traced hunt needs a single direction (cw or ccw)")
	}

	if start == nil {
		labs := r.LabsOfColor(a.Color)
		if len(labs) == 0 {
			return game.Hunt{}, fmt.Errorf("%w: no %s lab", game.ErrNoStart, a.Color)
		}
		h.Start = labs[0]
		return h, nil
	}
	if *start < 0 || *start >= r.Len() {
		return game.Hunt{}, fmt.Errorf("start %d out of range [0,%d)", *start, r.Len())
	}
	h.Start = *start
	return h, nil
}
