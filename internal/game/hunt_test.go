package game

import (
	"testing"

	"github.com/Arash1381-y/PanicLabSim/internal/log"
)

// TestResolveImprintsFromNextAmoeba: the evolution at 1 copies the pattern of
// the amoeba at 2, turning a strip target into a dot target that matches 2.
func TestResolveImprintsFromNextAmoeba(t *testing.T) {
	r := pairRing(t)

	got := Resolve(r, 0, target(ColorRed, PatternStrip, EyeSingle))
	if got != MatchedAt(2) {
		t.Fatalf("Resolve = %s, want Matched(2)", got)
	}
}

func TestResolveVentShortCircuit(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Vent(),
		Amoeba(ColorRed, PatternDot, EyeSingle),
		Amoeba(ColorRed, PatternStrip, EyeDouble),
	)

	for _, a := range r.Archetypes() {
		if got := Resolve(r, 0, a.Target()); got != NoMatch {
			t.Errorf("target %s: Resolve = %s, want NoMatch", a, got)
		}
	}
}

func TestResolveFullRevolution(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Amoeba(ColorRed, PatternDot, EyeSingle),
		Lab(ColorRed),
	)
	logger := log.NewMemoryLogger()

	got := Trace(r, Hunt{Start: 0, Target: target(ColorRed, PatternStrip, EyeDouble)}, ImprintNextAmoeba, logger)
	if got != NoMatch {
		t.Fatalf("Trace = %s, want NoMatch", got)
	}

	events := logger.Events()
	wantTypes := []log.EventType{log.EventHuntStart, log.EventPass, log.EventPass, log.EventRevolution}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d:\n%s", len(events), len(wantTypes), log.FormatAll(events))
	}
	for i, want := range wantTypes {
		if events[i].Type != want {
			t.Errorf("event %d type = %s, want %s", i, events[i].Type, want)
		}
	}
	if last := logger.LastEvent(); last.Step != 3 || last.Index != 0 {
		t.Errorf("revolution event at step %d index %d, want step 3 index 0", last.Step, last.Index)
	}
}

func TestResolvePassesThroughOtherLabs(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Lab(ColorRed),
		Lab(ColorGreen),
		Amoeba(ColorRed, PatternDot, EyeDouble),
	)

	if got := Resolve(r, 0, target(ColorRed, PatternDot, EyeDouble)); got != MatchedAt(3) {
		t.Errorf("Resolve = %s, want Matched(3)", got)
	}
}

func TestResolveSkipsStartLab(t *testing.T) {
	// Starting at the lab, the matching amoeba right before it is only reached
	// after the rest of the ring.
	r := mustRing(t,
		Amoeba(ColorRed, PatternStrip, EyeSingle),
		Lab(ColorRed),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
	)

	if got := Resolve(r, 1, target(ColorRed, PatternStrip, EyeSingle)); got != MatchedAt(2) {
		t.Errorf("Resolve = %s, want Matched(2)", got)
	}
}

func TestResolveUnsetTargetNeverMatches(t *testing.T) {
	r := mustRing(t, Lab(ColorRed), Amoeba(ColorRed, PatternDot, EyeSingle))

	if got := Resolve(r, 0, Target{Color: ColorRed, Pattern: PatternDot}); got != NoMatch {
		t.Errorf("Resolve = %s, want NoMatch", got)
	}
}

func TestImprintStopsAtStartLab(t *testing.T) {
	// The only amoeba after the evolution lies beyond the start lab, so the
	// target is left as is.
	r := mustRing(t,
		Lab(ColorRed),
		Amoeba(ColorBlue, PatternStrip, EyeSingle),
		Lab(ColorBlue),
		Evolution(AxisColor),
	)
	logger := log.NewMemoryLogger()

	got := Trace(r, Hunt{Start: 0, Target: target(ColorRed, PatternStrip, EyeSingle)}, ImprintNextAmoeba, logger)
	if got != NoMatch {
		t.Fatalf("Trace = %s, want NoMatch", got)
	}

	imprints := logger.EventsOfType(log.EventImprint)
	if len(imprints) != 1 {
		t.Fatalf("got %d imprint events, want 1", len(imprints))
	}
	if want := target(ColorRed, PatternStrip, EyeSingle).String(); imprints[0].Target != want {
		t.Errorf("target after imprint = %s, want unchanged %s", imprints[0].Target, want)
	}
}

func TestImprintMultipleAxes(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Evolution(AxisColor|AxisEye),
		Amoeba(ColorBlue, PatternStrip, EyeDouble),
		Lab(ColorBlue),
	)

	if got := Resolve(r, 0, target(ColorRed, PatternStrip, EyeSingle)); got != MatchedAt(2) {
		t.Errorf("Resolve = %s, want Matched(2)", got)
	}
}

func TestImprintRotate(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Evolution(AxisPattern),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
		Amoeba(ColorRed, PatternDot, EyeSingle),
	)
	h := Hunt{Start: 0, Target: target(ColorRed, PatternStrip, EyeSingle)}

	if got := ResolveHunt(r, h, ImprintNextAmoeba); got != MatchedAt(2) {
		t.Errorf("next-amoeba rule: got %s, want Matched(2)", got)
	}
	if got := ResolveHunt(r, h, ImprintRotate); got != MatchedAt(3) {
		t.Errorf("rotate rule: got %s, want Matched(3)", got)
	}
}

func TestResolveCounterClockwise(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Evolution(AxisPattern),
		Amoeba(ColorRed, PatternDot, EyeSingle),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
	)
	tgt := target(ColorRed, PatternStrip, EyeSingle)

	if got := ResolveHunt(r, Hunt{Start: 0, Target: tgt}, ImprintNextAmoeba); got != MatchedAt(2) {
		t.Errorf("clockwise: got %s, want Matched(2)", got)
	}
	if got := ResolveHunt(r, Hunt{Start: 0, Target: tgt, Direction: CounterClockwise}, ImprintNextAmoeba); got != MatchedAt(3) {
		t.Errorf("counter-clockwise: got %s, want Matched(3)", got)
	}
}

func TestTraceRecordsMatch(t *testing.T) {
	r := pairRing(t)
	logger := log.NewMemoryLogger()

	got := Trace(r, Hunt{Start: 0, Target: target(ColorRed, PatternStrip, EyeSingle)}, ImprintNextAmoeba, logger)
	if got != MatchedAt(2) {
		t.Fatalf("Trace = %s, want Matched(2)", got)
	}

	matches := logger.EventsOfType(log.EventMatch)
	if len(matches) != 1 || matches[0].Index != 2 || matches[0].Step != 2 {
		t.Fatalf("match events = %+v, want one at index 2 step 2", matches)
	}
	if want := target(ColorRed, PatternDot, EyeSingle).String(); matches[0].Target != want {
		t.Errorf("match target = %s, want %s", matches[0].Target, want)
	}
	for i, e := range logger.Events() {
		if e.Seq != i+1 {
			t.Errorf("event %d has seq %d", i, e.Seq)
		}
	}
}

func TestTraceAndResolveAgree(t *testing.T) {
	r := mustRing(t, sampleCards()...)
	for _, start := range append(r.LabsOfColor(ColorRed), r.LabsOfColor(ColorBlue)...) {
		for _, a := range r.Archetypes() {
			for _, dir := range []Direction{Clockwise, CounterClockwise} {
				h := Hunt{Start: start, Target: a.Target(), Direction: dir}
				want := ResolveHunt(r, h, ImprintNextAmoeba)
				if got := Trace(r, h, ImprintNextAmoeba, log.NewMemoryLogger()); got != want {
					t.Errorf("start %d target %s %s: Trace = %s, Resolve = %s", start, a, dir, got, want)
				}
			}
		}
	}
}
