package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
)

// ValidationResult reports one checked layout.
type ValidationResult struct {
	File       string   `json:"file"`
	Layout     string   `json:"layout,omitempty"`
	Valid      bool     `json:"valid"`
	Cards      int      `json:"cards,omitempty"`
	Amoebas    int      `json:"amoebas,omitempty"`
	Archetypes []string `json:"archetypes,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check layout files for parse and ring errors",
		Long: `Parse each layout file and build its ring. Every layout in a YAML file is
checked. Exits non-zero if any layout is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []ValidationResult
			for _, path := range args {
				results = append(results, validateFile(path)...)
			}

			invalid := 0
			for _, res := range results {
				if !res.Valid {
					invalid++
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				writeJSON(cmd, results)
			} else {
				out := cmd.OutOrStdout()
				for _, res := range results {
					name := res.File
					if res.Layout != "" {
						name += ":" + res.Layout
					}
					if res.Valid {
						fmt.Fprintf(out, "ok    %s (%d cards, %d amoebas, %d archetypes)\n", name, res.Cards, res.Amoebas, len(res.Archetypes))
					} else {
						fmt.Fprintf(out, "FAIL  %s: %s\n", name, res.Error)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d layouts invalid", invalid, len(results))
			}
			return nil
		},
	}
}

func validateFile(path string) []ValidationResult {
	if !game.IsYAML(path) {
		name, cards, err := game.LoadLayout(path)
		return []ValidationResult{validateCards(path, name, cards, err)}
	}

	lf, err := game.ReadLayoutFile(path)
	if err != nil {
		return []ValidationResult{{File: path, Error: err.Error()}}
	}
	if len(lf.Layouts) == 0 {
		return []ValidationResult{{File: path, Error: "no layouts"}}
	}
	results := make([]ValidationResult, 0, len(lf.Layouts))
	for _, le := range lf.Layouts {
		cards, err := le.Expand()
		results = append(results, validateCards(path, le.Name, cards, err))
	}
	return results
}

func validateCards(path, name string, cards []game.Card, err error) ValidationResult {
	res := ValidationResult{File: path, Layout: name}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	r, err := game.Build(cards)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Valid = true
	res.Cards = r.Len()
	res.Amoebas = len(r.AmoebaPositions())
	for _, a := range r.Archetypes() {
		res.Archetypes = append(res.Archetypes, a.String())
	}
	return res
}
