package cards

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/magefree/mage-goldfish/internal/game"
	"go.uber.org/zap"
)

// Entry is one decklist line resolved against the registry.
type Entry struct {
	Name     string
	Quantity int
	Def      *game.Definition
}

// Decklist is an ordered list of entries.
type Decklist []Entry

// ParseDecklist parses a decklist against the registry.
func ParseDecklist(text string, logger *zap.Logger) (Decklist, error) {
	return Registry.ParseDecklist(text, logger)
}

// ParseDecklist parses "<quantity> <name>" lines. Blank lines and lines
// starting with '#' are ignored. Names missing from the pool are logged and
// skipped; malformed lines are errors.
func (p Pool) ParseDecklist(text string, logger *zap.Logger) (Decklist, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var deck Decklist
	index := make(map[string]int)
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		qtyStr, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"<quantity> <name>\", got %q", lineNo, line)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("line %d: invalid quantity %q", lineNo, qtyStr)
		}
		name = strings.TrimSpace(name)

		if i, ok := index[name]; ok {
			deck[i].Quantity += qty
			continue
		}
		def, ok := p.Lookup(name)
		if !ok {
			logger.Warn("card not found, skipping", zap.String("card", name), zap.Int("line", lineNo))
			continue
		}
		index[name] = len(deck)
		deck = append(deck, Entry{Name: name, Quantity: qty, Def: def})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	return deck, nil
}

// Size returns the number of cards in the deck.
func (d Decklist) Size() int {
	n := 0
	for _, e := range d {
		n += e.Quantity
	}
	return n
}

// Definitions expands the decklist into one definition per card. Copies of
// a card share one definition.
func (d Decklist) Definitions() []*game.Definition {
	defs := make([]*game.Definition, 0, d.Size())
	for _, e := range d {
		for i := 0; i < e.Quantity; i++ {
			defs = append(defs, e.Def)
		}
	}
	return defs
}

func (d Decklist) String() string {
	var b strings.Builder
	for _, e := range d {
		fmt.Fprintf(&b, "%d %s\n", e.Quantity, e.Name)
	}
	return b.String()
}
