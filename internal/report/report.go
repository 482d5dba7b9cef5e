// Package report formats estimate results as a ranked text summary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
)

// Summary is everything printed after a run.
type Summary struct {
	Layout  string
	Cards   int
	Amoebas int
	Trials  int
	Seed    uint64
	Workers int
	Rules   game.Rules
	Shares  []game.Share
}

// NewSummary builds a summary from a finished tally.
func NewSummary(layout string, r *game.Ring, t *game.Tally, seed uint64, workers int, rules game.Rules) (Summary, error) {
	shares, err := game.Normalize(t)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Layout:  layout,
		Cards:   r.Len(),
		Amoebas: len(r.AmoebaPositions()),
		Trials:  t.Trials,
		Seed:    seed,
		Workers: workers,
		Rules:   rules,
		Shares:  shares,
	}, nil
}

// Write prints the summary using English number formatting.
func Write(w io.Writer, s Summary) error {
	return WriteLocalized(w, s, language.English)
}

// WriteLocalized prints the summary with digit grouping for tag.
func WriteLocalized(w io.Writer, s Summary, tag language.Tag) error {
	p := message.NewPrinter(tag)
	var b strings.Builder

	p.Fprintf(&b, "Layout:  %s (%d cards, %d amoebas)\n", s.Layout, s.Cards, s.Amoebas)
	p.Fprintf(&b, "Rules:   %s\n", s.Rules)
	p.Fprintf(&b, "Trials:  %d  seed: %s  workers: %d\n\n", s.Trials, strconv.FormatUint(s.Seed, 10), s.Workers)

	fmt.Fprintf(&b, "%3s  %-22s %9s %9s %8s  %s\n", "#", "Archetype", "P", "±", "Count", "Lines")
	for i, sh := range game.Ranked(s.Shares) {
		rank := strconv.Itoa(i + 1)
		if sh.NoMatch {
			rank = "-"
		}
		p.Fprintf(&b, "%3s  %-22s %8.2f%% %8.2f%% %8d  %s\n",
			rank, sh.Label, sh.Probability*100, sh.StdErr*100, sh.Count, formatLines(sh.Lines))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatLines(lines []int) string {
	var parts []string
	for _, l := range lines {
		if l > 0 {
			parts = append(parts, strconv.Itoa(l))
		}
	}
	return strings.Join(parts, ",")
}
