package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// Color is shared by labs and amoebas. Labs use red, green, yellow and blue;
// amoebas use red and blue.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	default:
		return "?"
	}
}

// IsAmoebaColor reports whether an amoeba can carry this color.
func (c Color) IsAmoebaColor() bool {
	return c == ColorRed || c == ColorBlue
}

type Pattern int

const (
	PatternNone Pattern = iota
	PatternStrip
	PatternDot
)

func (p Pattern) String() string {
	switch p {
	case PatternStrip:
		return "strip"
	case PatternDot:
		return "dot"
	default:
		return "?"
	}
}

type Eye int

const (
	EyeNone Eye = iota
	EyeSingle
	EyeDouble
)

func (e Eye) String() string {
	switch e {
	case EyeSingle:
		return "single"
	case EyeDouble:
		return "double"
	default:
		return "?"
	}
}

// Axis is a bit set of the attributes an Evolution card rewrites.
type Axis uint8

const (
	AxisColor Axis = 1 << iota
	AxisPattern
	AxisEye

	AxisNone Axis = 0
	AxisAll       = AxisColor | AxisPattern | AxisEye
)

// Has reports whether every axis in other is set in a.
func (a Axis) Has(other Axis) bool {
	return other != 0 && a&other == other
}

func (a Axis) String() string {
	var parts []string
	if a.Has(AxisColor) {
		parts = append(parts, "color")
	}
	if a.Has(AxisPattern) {
		parts = append(parts, "pattern")
	}
	if a.Has(AxisEye) {
		parts = append(parts, "eye")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

type CardKind int

const (
	KindLab CardKind = iota
	KindVent
	KindEvolution
	KindAmoeba
)

func (k CardKind) String() string {
	switch k {
	case KindLab:
		return "Lab"
	case KindVent:
		return "Vent"
	case KindEvolution:
		return "Evolution"
	case KindAmoeba:
		return "Amoeba"
	default:
		return "Unknown"
	}
}

// --- Archetype and target state ---

// Archetype is a fully specified amoeba triple. Several physical cards may
// share one archetype.
type Archetype struct {
	Color   Color
	Pattern Pattern
	Eye     Eye
}

func (a Archetype) String() string {
	return fmt.Sprintf("%s %s %s", a.Color, a.Pattern, a.Eye)
}

// Valid reports whether every field holds a concrete amoeba value.
func (a Archetype) Valid() bool {
	return a.Color.IsAmoebaColor() && a.Pattern != PatternNone && a.Eye != EyeNone
}

// Target returns a target state initialized to this archetype.
func (a Archetype) Target() Target {
	return Target(a)
}

// Matches compares against a target; unset target fields never match.
func (a Archetype) Matches(t Target) bool {
	return t.Complete() && a == Archetype(t)
}

// Target is the triple tracked during a hunt. A zero field is unset.
type Target struct {
	Color   Color
	Pattern Pattern
	Eye     Eye
}

// Complete reports whether all three fields are concrete.
func (t Target) Complete() bool {
	return t.Color != ColorNone && t.Pattern != PatternNone && t.Eye != EyeNone
}

func (t Target) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.Color, t.Pattern, t.Eye)
}

// --- Card definition ---

// Card is one position of the ring. Kind selects which payload fields apply:
// LabColor for labs, Axes for evolutions, Amoeba for amoebas.
type Card struct {
	Kind     CardKind
	LabColor Color
	Axes     Axis
	Amoeba   Archetype
	Line     int // source line, 0 when built in code
}

func Lab(c Color) Card { return Card{Kind: KindLab, LabColor: c} }

func Vent() Card { return Card{Kind: KindVent} }

func Evolution(axes Axis) Card { return Card{Kind: KindEvolution, Axes: axes} }

func Amoeba(c Color, p Pattern, e Eye) Card {
	return Card{Kind: KindAmoeba, Amoeba: Archetype{Color: c, Pattern: p, Eye: e}}
}

// AtLine returns a copy of the card tagged with its source line.
func (c Card) AtLine(line int) Card {
	c.Line = line
	return c
}

// Equal compares kind and payload, ignoring the source line.
func (c Card) Equal(o Card) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindLab:
		return c.LabColor == o.LabColor
	case KindEvolution:
		return c.Axes == o.Axes
	case KindAmoeba:
		return c.Amoeba == o.Amoeba
	default:
		return true
	}
}

func (c Card) String() string {
	switch c.Kind {
	case KindLab:
		return fmt.Sprintf("Lab(%s)", c.LabColor)
	case KindVent:
		return "Vent"
	case KindEvolution:
		return fmt.Sprintf("Evolution(%s)", c.Axes)
	case KindAmoeba:
		return fmt.Sprintf("Amoeba(%s)", c.Amoeba)
	default:
		return "Unknown"
	}
}

// --- Traversal ---

type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// Outcome is the result of one hunt. Index is -1 when nothing matched.
type Outcome struct {
	Matched bool
	Index   int
}

// NoMatch is the outcome of a hunt that hit a vent or came back to its lab.
var NoMatch = Outcome{Index: -1}

// MatchedAt returns a matched outcome for the given ring index.
func MatchedAt(i int) Outcome { return Outcome{Matched: true, Index: i} }

func (o Outcome) String() string {
	if !o.Matched {
		return "NoMatch"
	}
	return fmt.Sprintf("Matched(%d)", o.Index)
}
