package game

import (
	"github.com/Arash1381-y/PanicLabSim/internal/log"
)

// Hunt describes one traversal: the lab it starts from, the initial target
// and the walking direction.
type Hunt struct {
	Start     int
	Target    Target
	Direction Direction
}

// Resolve walks the ring clockwise from start with the standard imprint rule
// and returns the first matching amoeba.
func Resolve(r *Ring, start int, target Target) Outcome {
	return ResolveHunt(r, Hunt{Start: start, Target: target}, ImprintNextAmoeba)
}

// ResolveHunt runs one hunt. It never fails and does not touch shared state,
// so independent hunts may run concurrently.
func ResolveHunt(r *Ring, h Hunt, rule ImprintRule) Outcome {
	return walk(r, h, rule, tracer{})
}

// Trace runs one hunt and records every visited card on logger.
func Trace(r *Ring, h Hunt, rule ImprintRule, logger log.EventLogger) Outcome {
	return walk(r, h, rule, tracer{logger: logger})
}

func walk(r *Ring, h Hunt, rule ImprintRule, tr tracer) Outcome {
	current := h.Target
	tr.start(r, h)

	step := 1
	for cursor := r.Step(h.Start, h.Direction); cursor != h.Start; cursor = r.Step(cursor, h.Direction) {
		card := r.At(cursor)
		switch card.Kind {
		case KindEvolution:
			before := current
			current = imprint(r, h, cursor, card.Axes, current, rule)
			tr.imprint(step, cursor, card, before, current)
		case KindVent:
			tr.vent(step, cursor, card, current)
			return NoMatch
		case KindAmoeba:
			if card.Amoeba.Matches(current) {
				tr.match(step, cursor, card, current)
				return MatchedAt(cursor)
			}
			tr.pass(step, cursor, card, current)
		case KindLab:
			tr.pass(step, cursor, card, current)
		}
		step++
	}

	tr.revolution(step, h.Start, current)
	return NoMatch
}

// imprint applies an Evolution card at cursor to t.
func imprint(r *Ring, h Hunt, cursor int, axes Axis, t Target, rule ImprintRule) Target {
	if rule == ImprintRotate {
		return rotate(t, axes)
	}

	src := r.AmoebaAhead(r.Step(cursor, h.Direction), h.Direction)
	if src < 0 {
		return t
	}
	// The amoeba must lie on the rest of this hunt's path.
	if r.Distance(cursor, src, h.Direction) >= r.Distance(cursor, h.Start, h.Direction) {
		return t
	}
	a := r.At(src).Amoeba
	if axes.Has(AxisColor) {
		t.Color = a.Color
	}
	if axes.Has(AxisPattern) {
		t.Pattern = a.Pattern
	}
	if axes.Has(AxisEye) {
		t.Eye = a.Eye
	}
	return t
}

func rotate(t Target, axes Axis) Target {
	if axes.Has(AxisColor) {
		switch t.Color {
		case ColorRed:
			t.Color = ColorBlue
		case ColorBlue:
			t.Color = ColorRed
		}
	}
	if axes.Has(AxisPattern) {
		switch t.Pattern {
		case PatternStrip:
			t.Pattern = PatternDot
		case PatternDot:
			t.Pattern = PatternStrip
		}
	}
	if axes.Has(AxisEye) {
		switch t.Eye {
		case EyeSingle:
			t.Eye = EyeDouble
		case EyeDouble:
			t.Eye = EyeSingle
		}
	}
	return t
}

// tracer forwards hunt events to an optional logger.
type tracer struct {
	logger log.EventLogger
}

func (tr tracer) start(r *Ring, h Hunt) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewHuntStartEvent(h.Start, r.At(h.Start).String(), h.Target.String()))
}

func (tr tracer) pass(step, i int, c Card, t Target) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewPassEvent(step, i, c.String(), t.String()))
}

func (tr tracer) imprint(step, i int, c Card, before, after Target) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewImprintEvent(step, i, c.String(), before.String(), after.String()))
}

func (tr tracer) vent(step, i int, c Card, t Target) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewVentEvent(step, i, c.String(), t.String()))
}

func (tr tracer) match(step, i int, c Card, t Target) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewMatchEvent(step, i, c.String(), t.String()))
}

func (tr tracer) revolution(step, i int, t Target) {
	if tr.logger == nil {
		return
	}
	tr.logger.Log(log.NewRevolutionEvent(step, i, t.String()))
}
