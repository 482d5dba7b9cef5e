package game

import (
	"fmt"
	"math/rand/v2"
)

const DefaultTrials = 10_000

// Source is the randomness the estimator draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed source for the given seed and stream.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Tally accumulates trial outcomes for one ring. Counts only grow.
type Tally struct {
	Trials    int
	NoMatch   int
	Wins      map[Archetype]int
	Positions []int // wins per ring index

	order []Archetype
	lines map[Archetype][]int
}

// NewTally returns an empty tally sized for r.
func NewTally(r *Ring) *Tally {
	t := &Tally{
		Wins:      make(map[Archetype]int, len(r.archetypes)),
		Positions: make([]int, r.Len()),
		order:     r.Archetypes(),
		lines:     make(map[Archetype][]int),
	}
	for _, i := range r.amoebas {
		c := r.cards[i]
		t.lines[c.Amoeba] = append(t.lines[c.Amoeba], c.Line)
	}
	return t
}

// Record adds the outcome of one trial.
func (t *Tally) Record(r *Ring, o Outcome) {
	t.Trials++
	if !o.Matched {
		t.NoMatch++
		return
	}
	t.Wins[r.At(o.Index).Amoeba]++
	t.Positions[o.Index]++
}

// Merge adds other's counts into t. Both tallies must come from the same ring.
func (t *Tally) Merge(other *Tally) {
	t.Trials += other.Trials
	t.NoMatch += other.NoMatch
	for a, n := range other.Wins {
		t.Wins[a] += n
	}
	for i, n := range other.Positions {
		t.Positions[i] += n
	}
}

// Matched returns the number of trials that found an amoeba.
func (t *Tally) Matched() int {
	sum := 0
	for _, n := range t.Wins {
		sum += n
	}
	return sum
}

// Order returns the archetypes in ring order of first occurrence.
func (t *Tally) Order() []Archetype {
	return append([]Archetype(nil), t.order...)
}

// Lines returns the source lines of the cards showing archetype a.
func (t *Tally) Lines(a Archetype) []int {
	return t.lines[a]
}

// Estimate runs n trials against r drawing randomness from src.
func Estimate(r *Ring, n int, src Source, rules Rules) (*Tally, error) {
	if n <= 0 {
		return nil, fmt.Errorf("estimate: %w (got %d)", ErrZeroTrials, n)
	}
	t := NewTally(r)
	for i := 0; i < n; i++ {
		t.Record(r, RunTrial(r, src, rules))
	}
	return t, nil
}

// RunTrial samples a target and a start lab and resolves one hunt.
func RunTrial(r *Ring, src Source, rules Rules) Outcome {
	return ResolveHunt(r, SampleHunt(r, src, rules), rules.Imprint)
}

// SampleHunt draws the starting conditions for one trial. Amoebas are drawn
// per card, so an archetype printed twice is twice as likely to be the target.
func SampleHunt(r *Ring, src Source, rules Rules) Hunt {
	target := r.cards[r.amoebas[src.IntN(len(r.amoebas))]].Amoeba

	// Build guarantees a lab for every amoeba color.
	labs := r.labs[target.Color]
	start := labs[0]
	if rules.Labs == LabUniform && len(labs) > 1 {
		start = labs[src.IntN(len(labs))]
	}

	dir := Clockwise
	switch rules.Directions {
	case DirectionsCounterClockwise:
		dir = CounterClockwise
	case DirectionsBoth:
		if src.IntN(2) == 1 {
			dir = CounterClockwise
		}
	}

	return Hunt{Start: start, Target: target.Target(), Direction: dir}
}
