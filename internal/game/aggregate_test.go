package game

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeOrderAndResidual(t *testing.T) {
	r := mustRing(t, sampleCards()...)
	tally, err := Estimate(r, 4000, NewSource(21, 0), Rules{})
	if err != nil {
		t.Fatal(err)
	}

	shares, err := Normalize(tally)
	if err != nil {
		t.Fatal(err)
	}

	archetypes := r.Archetypes()
	if len(shares) != len(archetypes)+1 {
		t.Fatalf("got %d shares, want %d", len(shares), len(archetypes)+1)
	}
	for i, a := range archetypes {
		if shares[i].Archetype != a || shares[i].Label != a.String() {
			t.Errorf("share %d = %q, want %q", i, shares[i].Label, a)
		}
	}
	last := shares[len(shares)-1]
	if !last.NoMatch || last.Label != NoMatchLabel || last.Count != tally.NoMatch {
		t.Errorf("residual share = %+v", last)
	}

	sum := 0.0
	for _, s := range shares {
		if s.Probability < 0 || s.Probability > 1 {
			t.Errorf("%s: probability %f out of range", s.Label, s.Probability)
		}
		sum += s.Probability
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %.12f", sum)
	}
}

func TestNormalizeKeepsZeroCountArchetypes(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Evolution(AxisPattern),
		Amoeba(ColorRed, PatternDot, EyeSingle),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
	)
	tally, err := Estimate(r, 100, NewSource(1, 0), Rules{})
	if err != nil {
		t.Fatal(err)
	}

	shares, err := Normalize(tally)
	if err != nil {
		t.Fatal(err)
	}
	if shares[1].Label != "red strip single" || shares[1].Count != 0 || shares[1].Probability != 0 {
		t.Errorf("zero-count share = %+v", shares[1])
	}
	if shares[0].Probability != 1 {
		t.Errorf("dot probability = %f, want 1", shares[0].Probability)
	}
}

func TestNormalizeRecordsLines(t *testing.T) {
	cards := []Card{
		Lab(ColorRed).AtLine(1),
		Amoeba(ColorRed, PatternDot, EyeSingle).AtLine(3),
		Amoeba(ColorRed, PatternDot, EyeSingle).AtLine(5),
	}
	r := mustRing(t, cards...)
	tally, err := Estimate(r, 10, NewSource(1, 0), Rules{})
	if err != nil {
		t.Fatal(err)
	}
	shares, err := Normalize(tally)
	if err != nil {
		t.Fatal(err)
	}
	if got := shares[0].Lines; len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("Lines = %v, want [3 5]", got)
	}
}

func TestNormalizeZeroTrials(t *testing.T) {
	r := mustRing(t, sampleCards()...)
	if _, err := Normalize(NewTally(r)); !errors.Is(err, ErrZeroTrials) {
		t.Errorf("error = %v, want ErrZeroTrials", err)
	}
	if _, err := Normalize(nil); !errors.Is(err, ErrZeroTrials) {
		t.Errorf("nil tally error = %v, want ErrZeroTrials", err)
	}
}

// TestStandardErrorShrinksWithTrials: a fair coin between two amoebas; going
// from 100 to 100,000 trials should cut the standard error by about √1000.
func TestStandardErrorShrinksWithTrials(t *testing.T) {
	r := mustRing(t,
		Lab(ColorRed),
		Amoeba(ColorRed, PatternStrip, EyeSingle),
		Amoeba(ColorRed, PatternDot, EyeSingle),
	)

	stderr := func(n int) (float64, float64) {
		tally, err := Estimate(r, n, NewSource(2024, 0), Rules{})
		if err != nil {
			t.Fatal(err)
		}
		shares, err := Normalize(tally)
		if err != nil {
			t.Fatal(err)
		}
		return shares[0].Probability, shares[0].StdErr
	}

	_, small := stderr(100)
	p, large := stderr(100_000)

	ratio := small / large
	if ratio < 20 || ratio > 45 {
		t.Errorf("stderr ratio = %.1f, want about %.1f", ratio, math.Sqrt(1000))
	}
	if math.Abs(p-0.5) > 5*large {
		t.Errorf("p = %.4f, more than 5 standard errors from 0.5", p)
	}
}

func TestRanked(t *testing.T) {
	shares := []Share{
		{Label: "a", Probability: 0.1},
		{Label: "b", Probability: 0.5},
		{Label: "c", Probability: 0.1},
		{Label: "d", Probability: 0.3},
	}
	got := Ranked(shares)
	want := []string{"b", "d", "a", "c"}
	for i, w := range want {
		if got[i].Label != w {
			t.Errorf("rank %d = %s, want %s", i, got[i].Label, w)
		}
	}
	if shares[0].Label != "a" {
		t.Error("Ranked modified its input")
	}
}
