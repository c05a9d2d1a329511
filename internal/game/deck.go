package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HandFile represents the top-level YAML structure of a hand preset file.
type HandFile struct {
	Hands []HandEntry `yaml:"hands"`
}

// HandEntry is a named five-card hand, listed by catalog id.
type HandEntry struct {
	Name  string   `yaml:"name"`
	Cards []string `yaml:"cards"`
}

func readHandFile(path string) (*HandFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hf HandFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("parse hand YAML: %w", err)
	}
	return &hf, nil
}

func (e HandEntry) validate(cat *Catalog) error {
	if len(e.Cards) != HandSize {
		return fmt.Errorf("hand %q has %d cards, want %d", e.Name, len(e.Cards), HandSize)
	}
	for _, id := range e.Cards {
		if _, ok := cat.Lookup(id); !ok {
			return fmt.Errorf("hand %q: %w %q", e.Name, ErrUnknownCard, id)
		}
	}
	return nil
}

// ParseHandFile parses a YAML hand file and returns a map of hand name → card ids.
func ParseHandFile(cat *Catalog, path string) (map[string][]string, error) {
	hf, err := readHandFile(path)
	if err != nil {
		return nil, err
	}
	hands := make(map[string][]string, len(hf.Hands))
	for _, h := range hf.Hands {
		if err := h.validate(cat); err != nil {
			return nil, err
		}
		hands[h.Name] = h.Cards
	}
	return hands, nil
}

// HandByNumber returns the Nth hand (1-indexed) from the hand file.
func HandByNumber(cat *Catalog, path string, n int) (string, []string, error) {
	hf, err := readHandFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(hf.Hands) {
		return "", nil, fmt.Errorf("hand %d not found (have %d hands)", n, len(hf.Hands))
	}
	h := hf.Hands[n-1]
	if err := h.validate(cat); err != nil {
		return "", nil, err
	}
	return h.Name, h.Cards, nil
}
