package game

import (
	"testing"
)

// ScriptedSource is a Source that replays a fixed list of draws. Used in
// tests to pick targets and labs deterministically.
type ScriptedSource struct {
	t     *testing.T
	draws []int
	pos   int
}

func NewScriptedSource(t *testing.T, draws ...int) *ScriptedSource {
	return &ScriptedSource{t: t, draws: draws}
}

func (s *ScriptedSource) IntN(n int) int {
	if s.pos >= len(s.draws) {
		s.t.Fatalf("scripted source exhausted after %d draws", s.pos)
	}
	v := s.draws[s.pos]
	s.pos++
	if v < 0 || v >= n {
		s.t.Fatalf("scripted draw %d out of range [0,%d)", v, n)
	}
	return v
}

// Used reports how many draws were consumed.
func (s *ScriptedSource) Used() int {
	return s.pos
}

func mustRing(t *testing.T, cards ...Card) *Ring {
	t.Helper()
	r, err := Build(cards)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func target(c Color, p Pattern, e Eye) Target {
	return Target{Color: c, Pattern: p, Eye: e}
}

func arch(c Color, p Pattern, e Eye) Archetype {
	return Archetype{Color: c, Pattern: p, Eye: e}
}

// sampleCards is a mixed ring touching every card kind and both colors.
func sampleCards() []Card {
	return []Card{
		Lab(ColorRed),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
		Evolution(AxisPattern),
		Amoeba(ColorRed, PatternDot, EyeDouble),
		Lab(ColorBlue),
		Amoeba(ColorBlue, PatternDot, EyeSingle),
		Vent(),
		Amoeba(ColorBlue, PatternStrip, EyeDouble),
		Evolution(AxisColor | AxisEye),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
	}
}

// pairRing is a red lab, a pattern evolution ahead of a dot/strip pair, then a vent.
func pairRing(t *testing.T) *Ring {
	return mustRing(t,
		Lab(ColorRed),
		Evolution(AxisPattern),
		Amoeba(ColorRed, PatternDot, EyeSingle),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
		Vent(),
	)
}
