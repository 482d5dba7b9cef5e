package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a layout line that could not be turned into a card.
type ParseError struct {
	Line   int
	Text   string
	Reason error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

// --- Text layouts ---

// ParseLayout reads one card per line. Blank lines and everything after '#'
// are ignored.
func ParseLayout(r io.Reader) ([]Card, error) {
	var cards []Card
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		card, ok, err := ParseLine(sc.Text(), line)
		if err != nil {
			return nil, err
		}
		if ok {
			cards = append(cards, card)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return cards, nil
}

// ParseLayoutText is ParseLayout over a string.
func ParseLayoutText(s string) ([]Card, error) {
	return ParseLayout(strings.NewReader(s))
}

// ParseLine parses a single layout line. ok is false for blank or comment lines.
func ParseLine(text string, line int) (card Card, ok bool, err error) {
	body, _, _ := strings.Cut(text, "#")
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Card{}, false, nil
	}
	card, err = LookupCard(fields[0], fields[1:])
	if err != nil {
		return Card{}, false, &ParseError{Line: line, Text: strings.TrimSpace(text), Reason: err}
	}
	return card.AtLine(line), true, nil
}

// --- YAML layouts ---

// LayoutFile represents the top-level YAML structure.
type LayoutFile struct {
	Layouts []LayoutEntry `yaml:"layouts"`
}

// LayoutEntry represents a single named ring in the YAML file.
type LayoutEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is one card line and how many consecutive copies to place.
type CardEntry struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

// Expand converts the entry list into cards. Line records the 1-based entry
// number since YAML entries carry no text line.
func (le LayoutEntry) Expand() ([]Card, error) {
	var cards []Card
	for i, entry := range le.Cards {
		card, ok, err := ParseLine(entry.Card, i+1)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", le.Name, err)
		}
		if !ok {
			return nil, fmt.Errorf("layout %q: entry %d is empty", le.Name, i+1)
		}
		count := entry.Count
		if count == 0 {
			count = 1
		}
		for j := 0; j < count; j++ {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// ReadLayoutFile parses the YAML layout file at path.
func ReadLayoutFile(path string) (LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutFile{}, err
	}
	return DecodeLayoutFile(data)
}

// DecodeLayoutFile parses YAML layout file contents.
func DecodeLayoutFile(data []byte) (LayoutFile, error) {
	var lf LayoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return LayoutFile{}, fmt.Errorf("parse layout YAML: %w", err)
	}
	return lf, nil
}

// ParseLayoutFile parses a YAML layout file and returns a map of layout name → cards.
func ParseLayoutFile(path string) (map[string][]Card, error) {
	lf, err := ReadLayoutFile(path)
	if err != nil {
		return nil, err
	}

	layouts := make(map[string][]Card)
	for _, le := range lf.Layouts {
		cards, err := le.Expand()
		if err != nil {
			return nil, err
		}
		layouts[le.Name] = cards
	}
	return layouts, nil
}

// LayoutByNumber returns the Nth layout (1-indexed) from the YAML file.
func LayoutByNumber(path string, n int) (string, []Card, error) {
	lf, err := ReadLayoutFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(lf.Layouts) {
		return "", nil, fmt.Errorf("layout %d not found (have %d layouts)", n, len(lf.Layouts))
	}

	le := lf.Layouts[n-1]
	cards, err := le.Expand()
	if err != nil {
		return "", nil, err
	}
	return le.Name, cards, nil
}

// LayoutByName returns the layout called name from the YAML file. The match
// ignores case; the returned name is the one written in the file.
func LayoutByName(path, name string) (string, []Card, error) {
	lf, err := ReadLayoutFile(path)
	if err != nil {
		return "", nil, err
	}
	for _, le := range lf.Layouts {
		if strings.EqualFold(le.Name, name) {
			cards, err := le.Expand()
			if err != nil {
				return "", nil, err
			}
			return le.Name, cards, nil
		}
	}
	return "", nil, fmt.Errorf("layout %q not found", name)
}

// IsYAML reports whether path names a YAML layout file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadLayout reads a text layout, or the first layout of a YAML file.
func LoadLayout(path string) (string, []Card, error) {
	if IsYAML(path) {
		return LayoutByNumber(path, 1)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	cards, err := ParseLayout(f)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), cards, nil
}

// LoadRing loads a layout and builds its ring.
func LoadRing(path string) (string, *Ring, error) {
	name, cards, err := LoadLayout(path)
	if err != nil {
		return "", nil, err
	}
	r, err := Build(cards)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return name, r, nil
}
