package game

import (
	"fmt"
	"regexp"
	"strings"
)

// CardRegistry maps the leading keyword of a layout line to its payload parser.
var CardRegistry = map[string]func(args []string) (Card, error){
	"lab":       parseLab,
	"vent":      parseVent,
	"evolution": parseEvolution,
	"amoeba":    parseAmoeba,
}

var labColors = map[string]Color{
	"red":    ColorRed,
	"green":  ColorGreen,
	"yellow": ColorYellow,
	"blue":   ColorBlue,
}

var amoebaColors = map[string]Color{
	"red":  ColorRed,
	"blue": ColorBlue,
}

var patterns = map[string]Pattern{
	"strip":   PatternStrip,
	"striped": PatternStrip,
	"dot":     PatternDot,
	"dots":    PatternDot,
	"dotty":   PatternDot,
}

var eyes = map[string]Eye{
	"single": EyeSingle,
	"1":      EyeSingle,
	"double": EyeDouble,
	"2":      EyeDouble,
}

var axes = map[string]Axis{
	"color":   AxisColor,
	"colour":  AxisColor,
	"pattern": AxisPattern,
	"eye":     AxisEye,
	"eyes":    AxisEye,
}

var axisSeparators = regexp.MustCompile(`[+\s|/,_-]+`)

// LookupCard parses a card from its keyword and arguments.
func LookupCard(name string, args []string) (Card, error) {
	parse, ok := CardRegistry[strings.ToLower(name)]
	if !ok {
		return Card{}, fmt.Errorf("unknown card type %q", name)
	}
	return parse(args)
}

// ParseArchetype parses "color pattern eye" into a triple.
func ParseArchetype(s string) (Archetype, error) {
	c, err := parseAmoeba(strings.Fields(s))
	if err != nil {
		return Archetype{}, err
	}
	return c.Amoeba, nil
}

func parseLab(args []string) (Card, error) {
	if len(args) != 1 {
		return Card{}, fmt.Errorf("lab wants 1 color, got %d tokens", len(args))
	}
	c, ok := labColors[strings.ToLower(args[0])]
	if !ok {
		return Card{}, fmt.Errorf("unsupported lab color %q", args[0])
	}
	return Lab(c), nil
}

func parseVent(args []string) (Card, error) {
	if len(args) != 0 {
		return Card{}, fmt.Errorf("vent takes no arguments, got %q", strings.Join(args, " "))
	}
	return Vent(), nil
}

func parseEvolution(args []string) (Card, error) {
	blob := strings.ToLower(strings.Join(args, " "))
	var set Axis
	for _, tok := range axisSeparators.Split(blob, -1) {
		if tok == "" {
			continue
		}
		a, ok := axes[tok]
		if !ok {
			return Card{}, fmt.Errorf("unknown evolution axis %q", tok)
		}
		set |= a
	}
	if set == AxisNone {
		return Card{}, fmt.Errorf("evolution needs at least one of color, pattern, eye")
	}
	return Evolution(set), nil
}

func parseAmoeba(args []string) (Card, error) {
	if len(args) != 3 {
		return Card{}, fmt.Errorf("amoeba wants color pattern eye, got %d tokens", len(args))
	}
	c, ok := amoebaColors[strings.ToLower(args[0])]
	if !ok {
		return Card{}, fmt.Errorf("unsupported amoeba color %q", args[0])
	}
	p, ok := patterns[strings.ToLower(args[1])]
	if !ok {
		return Card{}, fmt.Errorf("unsupported pattern %q", args[1])
	}
	e, ok := eyes[strings.ToLower(args[2])]
	if !ok {
		return Card{}, fmt.Errorf("unsupported eye %q", args[2])
	}
	return Amoeba(c, p, e), nil
}
