package game

import (
	"fmt"
	"strings"
)

// ImprintRule decides how an Evolution card rewrites the target.
type ImprintRule int

const (
	// ImprintNextAmoeba copies the axis from the nearest amoeba still ahead on
	// the hunt path.
	ImprintNextAmoeba ImprintRule = iota
	// ImprintRotate cycles the axis to its next value.
	ImprintRotate
)

func (r ImprintRule) String() string {
	if r == ImprintRotate {
		return "rotate"
	}
	return "next"
}

// LabChoice decides which same-color lab a trial starts from.
type LabChoice int

const (
	LabUniform LabChoice = iota
	LabFirst
)

func (l LabChoice) String() string {
	if l == LabFirst {
		return "first"
	}
	return "uniform"
}

// DirectionMode fixes the walking direction or samples it per trial.
type DirectionMode int

const (
	DirectionsClockwise DirectionMode = iota
	DirectionsCounterClockwise
	DirectionsBoth
)

func (d DirectionMode) String() string {
	switch d {
	case DirectionsCounterClockwise:
		return "ccw"
	case DirectionsBoth:
		return "both"
	default:
		return "cw"
	}
}

// Rules groups the traversal policies. The zero value is the standard game.
type Rules struct {
	Imprint    ImprintRule
	Labs       LabChoice
	Directions DirectionMode
}

func (r Rules) String() string {
	return fmt.Sprintf("imprint=%s labs=%s direction=%s", r.Imprint, r.Labs, r.Directions)
}

func ParseImprintRule(s string) (ImprintRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "next", "next-amoeba":
		return ImprintNextAmoeba, nil
	case "rotate", "cycle":
		return ImprintRotate, nil
	}
	return 0, fmt.Errorf("unknown imprint rule %q (want next|rotate)", s)
}

func ParseLabChoice(s string) (LabChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform", "random":
		return LabUniform, nil
	case "first":
		return LabFirst, nil
	}
	return 0, fmt.Errorf("unknown lab choice %q (want uniform|first)", s)
}

func ParseDirectionMode(s string) (DirectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cw", "clockwise":
		return DirectionsClockwise, nil
	case "ccw", "counter-clockwise", "counterclockwise":
		return DirectionsCounterClockwise, nil
	case "both", "random":
		return DirectionsBoth, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want cw|ccw|both)", s)
}

// ParseRules parses the three rule names at once. Empty strings keep defaults.
func ParseRules(imprint, labs, direction string) (Rules, error) {
	var rules Rules
	var err error
	if rules.Imprint, err = ParseImprintRule(imprint); err != nil {
		return Rules{}, err
	}
	if rules.Labs, err = ParseLabChoice(labs); err != nil {
		return Rules{}, err
	}
	if rules.Directions, err = ParseDirectionMode(direction); err != nil {
		return Rules{}, err
	}
	return rules, nil
}
