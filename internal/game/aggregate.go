package game

import (
	"fmt"
	"math"
	"sort"
)

// NoMatchLabel labels the residual share of trials that found nothing.
const NoMatchLabel = "no match"

// Share is one normalized result row.
type Share struct {
	Label       string
	Archetype   Archetype // zero for the no-match row
	NoMatch     bool
	Count       int
	Probability float64
	StdErr      float64 // binomial standard error of Probability
	Lines       []int   // source lines of the cards with this archetype
}

// Normalize converts a tally into shares: one per ring archetype in order of
// first occurrence, zero counts included, followed by the no-match residual.
func Normalize(t *Tally) ([]Share, error) {
	if t == nil || t.Trials <= 0 {
		return nil, fmt.Errorf("normalize: %w", ErrZeroTrials)
	}

	n := float64(t.Trials)
	shares := make([]Share, 0, len(t.order)+1)
	for _, a := range t.order {
		count := t.Wins[a]
		shares = append(shares, newShare(a.String(), count, n, func(s *Share) {
			s.Archetype = a
			s.Lines = t.Lines(a)
		}))
	}
	shares = append(shares, newShare(NoMatchLabel, t.NoMatch, n, func(s *Share) {
		s.NoMatch = true
	}))
	return shares, nil
}

func newShare(label string, count int, n float64, fill func(*Share)) Share {
	p := float64(count) / n
	s := Share{
		Label:       label,
		Count:       count,
		Probability: p,
		StdErr:      math.Sqrt(p * (1 - p) / n),
	}
	fill(&s)
	return s
}

// Ranked returns a copy of shares sorted by descending probability. Ties keep
// ring order.
func Ranked(shares []Share) []Share {
	out := append([]Share(nil), shares...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}
