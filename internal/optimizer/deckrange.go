package optimizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefree/mage-goldfish/internal/cards"
	"gopkg.in/yaml.v3"
)

// Entry is one card of a deck range: its current quantity and the bounds
// the optimizer may move it within.
type Entry struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
	Min      int    `yaml:"min"`
	Max      int    `yaml:"max"`
}

// DeckRange is the ordered list of entries the optimizer tunes.
type DeckRange []Entry

// deckRangeFile is the top-level YAML structure.
type deckRangeFile struct {
	Cards DeckRange `yaml:"cards"`
}

// Variant is one neighbour of a deck range: the decklist text after adding
// or removing a single copy of Card.
type Variant struct {
	Card     string
	Delta    int
	Decklist string
}

// LoadDeckRange reads a deck range YAML file.
func LoadDeckRange(path string) (DeckRange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckRange(data)
}

// ParseDeckRange parses a deck range YAML document.
func ParseDeckRange(data []byte) (DeckRange, error) {
	var f deckRangeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck range YAML: %w", err)
	}
	if len(f.Cards) == 0 {
		return nil, fmt.Errorf("deck range has no cards")
	}
	return f.Cards, nil
}

// Validate checks the bounds of every entry and that every name is in pool.
func (r DeckRange) Validate(pool cards.Pool) error {
	seen := make(map[string]struct{}, len(r))
	for _, e := range r {
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("duplicate card %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		if _, ok := pool[e.Name]; !ok {
			return fmt.Errorf("unknown card %q", e.Name)
		}
		if e.Min < 0 || e.Min > e.Max || e.Quantity < e.Min || e.Quantity > e.Max {
			return fmt.Errorf("card %q: quantity %d outside [%d, %d]", e.Name, e.Quantity, e.Min, e.Max)
		}
	}
	return nil
}

// Size returns the number of cards of the current list.
func (r DeckRange) Size() int {
	n := 0
	for _, e := range r {
		n += e.Quantity
	}
	return n
}

// Decklist renders the current quantities as decklist text, one
// "<quantity> <name>" line per entry in range order.
func (r DeckRange) Decklist() string {
	return r.decklistWith("", 0)
}

func (r DeckRange) decklistWith(name string, delta int) string {
	var b strings.Builder
	for _, e := range r {
		qty := e.Quantity
		if e.Name == name {
			qty += delta
		}
		fmt.Fprintf(&b, "%d %s\n", qty, e.Name)
	}
	return b.String()
}

// Variants returns the baseline decklist, the +1 neighbours of every entry
// below its maximum and the -1 neighbours of every entry above its minimum,
// each in range order.
func (r DeckRange) Variants() (baseline string, adds, removes []Variant) {
	baseline = r.Decklist()
	for _, e := range r {
		if e.Quantity < e.Max {
			adds = append(adds, Variant{Card: e.Name, Delta: 1, Decklist: r.decklistWith(e.Name, 1)})
		}
	}
	for _, e := range r {
		if e.Quantity > e.Min {
			removes = append(removes, Variant{Card: e.Name, Delta: -1, Decklist: r.decklistWith(e.Name, -1)})
		}
	}
	return baseline, adds, removes
}

// Apply returns a copy of r with one copy of add added and one copy of
// remove removed. Naming the same card for both leaves it unchanged.
func (r DeckRange) Apply(add, remove string) DeckRange {
	out := make(DeckRange, len(r))
	copy(out, r)
	for i := range out {
		if out[i].Name == add {
			out[i].Quantity++
		}
		if out[i].Name == remove {
			out[i].Quantity--
		}
	}
	return out
}

// Marshal encodes the range in the layout LoadDeckRange reads.
func (r DeckRange) Marshal() ([]byte, error) {
	return yaml.Marshal(deckRangeFile{Cards: r})
}
