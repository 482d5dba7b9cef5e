package game

import (
	"errors"
	"fmt"
)

// Setup errors. They are detected before any trial runs.
var (
	ErrEmptyRing  = errors.New("ring has no cards")
	ErrNoLab      = errors.New("ring has no lab card")
	ErrNoAmoeba   = errors.New("ring has no amoeba card")
	ErrNoStart    = errors.New("no lab matches amoeba color")
	ErrZeroTrials = errors.New("trial count must be positive")
)

// Ring is the immutable circular board. Index i is followed clockwise by
// (i+1) mod Len().
type Ring struct {
	cards      []Card
	amoebas    []int
	labs       map[Color][]int
	archetypes []Archetype

	// nearest amoeba at or after i, per direction
	aheadCW  []int
	aheadCCW []int
}

// Build validates the cards and returns a ring. The slice is copied.
func Build(cards []Card) (*Ring, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyRing
	}

	r := &Ring{
		cards: append([]Card(nil), cards...),
		labs:  make(map[Color][]int),
	}
	seen := make(map[Archetype]bool)
	for i, c := range r.cards {
		switch c.Kind {
		case KindLab:
			r.labs[c.LabColor] = append(r.labs[c.LabColor], i)
		case KindAmoeba:
			if !c.Amoeba.Valid() {
				return nil, fmt.Errorf("card %d: incomplete amoeba %s", i, c.Amoeba)
			}
			r.amoebas = append(r.amoebas, i)
			if !seen[c.Amoeba] {
				seen[c.Amoeba] = true
				r.archetypes = append(r.archetypes, c.Amoeba)
			}
		}
	}

	if len(r.labs) == 0 {
		return nil, ErrNoLab
	}
	if len(r.amoebas) == 0 {
		return nil, ErrNoAmoeba
	}
	for _, a := range r.archetypes {
		if len(r.labs[a.Color]) == 0 {
			return nil, fmt.Errorf("%w: %s amoeba %q has no %s lab", ErrNoStart, a.Color, a, a.Color)
		}
	}

	r.aheadCW = r.nearestAmoebas(Clockwise)
	r.aheadCCW = r.nearestAmoebas(CounterClockwise)
	return r, nil
}

// nearestAmoebas walks the ring twice backwards against dir so every slot
// learns the closest amoeba at or after it.
func (r *Ring) nearestAmoebas(dir Direction) []int {
	n := len(r.cards)
	ahead := make([]int, n)
	last := -1
	i := r.Step(0, opposite(dir))
	for k := 0; k < 2*n; k++ {
		if r.cards[i].Kind == KindAmoeba {
			last = i
		}
		ahead[i] = last
		i = r.Step(i, opposite(dir))
	}
	return ahead
}

func opposite(d Direction) Direction {
	if d == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// Len returns the number of cards.
func (r *Ring) Len() int {
	return len(r.cards)
}

// At returns the card at index i.
func (r *Ring) At(i int) Card {
	return r.cards[i]
}

// Cards returns a copy of the ring contents.
func (r *Ring) Cards() []Card {
	return append([]Card(nil), r.cards...)
}

// Next returns the clockwise neighbor of i.
func (r *Ring) Next(i int) int {
	return (i + 1) % len(r.cards)
}

// Prev returns the counter-clockwise neighbor of i.
func (r *Ring) Prev(i int) int {
	return (i - 1 + len(r.cards)) % len(r.cards)
}

// Step moves one card in the given direction.
func (r *Ring) Step(i int, dir Direction) int {
	if dir == CounterClockwise {
		return r.Prev(i)
	}
	return r.Next(i)
}

// Distance counts the steps from one index to another walking in dir.
func (r *Ring) Distance(from, to int, dir Direction) int {
	n := len(r.cards)
	if dir == CounterClockwise {
		return (from - to + n) % n
	}
	return (to - from + n) % n
}

// AmoebaAhead returns the nearest amoeba index at or after i in dir.
func (r *Ring) AmoebaAhead(i int, dir Direction) int {
	if dir == CounterClockwise {
		return r.aheadCCW[i]
	}
	return r.aheadCW[i]
}

// Positions returns every index whose card satisfies pred, in ring order from 0.
func (r *Ring) Positions(pred func(Card) bool) []int {
	var out []int
	for i, c := range r.cards {
		if pred(c) {
			out = append(out, i)
		}
	}
	return out
}

// LabsOfColor returns the lab positions of color c.
func (r *Ring) LabsOfColor(c Color) []int {
	return append([]int(nil), r.labs[c]...)
}

// AmoebaPositions returns every amoeba position.
func (r *Ring) AmoebaPositions() []int {
	return append([]int(nil), r.amoebas...)
}

// Archetypes returns the distinct amoeba triples in order of first occurrence.
func (r *Ring) Archetypes() []Archetype {
	return append([]Archetype(nil), r.archetypes...)
}

func (r *Ring) String() string {
	return fmt.Sprintf("Ring(%d cards, %d amoebas, %d archetypes)", len(r.cards), len(r.amoebas), len(r.archetypes))
}
