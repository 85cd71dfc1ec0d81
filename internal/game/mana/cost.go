package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost is a mana cost reduced to what the ledger cares about: the total amount
// and the colorless sub-amount that any mana can pay. The remainder
// (Total - Colorless) must be paid with colored mana.
//
// A nil *Cost means the cost is absent and the action is unaffordable.
type Cost struct {
	Total     int
	Colorless int
	symbols   string
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string (e.g., "{1}{G}", "{4}", "{G}{G}").
// Supports:
// - Generic: {1}, {2}, {3}, etc. (colorless sub-amount)
// - Colorless: {C}
// - Colored: {W}, {U}, {B}, {R}, {G}
// An empty string is a zero cost, not an absent one.
func ParseCost(costStr string) (*Cost, error) {
	cost := &Cost{symbols: strings.TrimSpace(costStr)}
	if cost.symbols == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(cost.symbols, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no mana symbols in %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))

		switch symbol {
		case "W", "U", "B", "R", "G":
			cost.Total++
		case "C":
			cost.Total++
			cost.Colorless++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			cost.Total += num
			cost.Colorless += num
		}
	}

	return cost, nil
}

// MustParseCost is ParseCost for static card tables. It panics on malformed input.
func MustParseCost(costStr string) *Cost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// NewCost builds a cost directly from its totals.
func NewCost(total, colorless int) *Cost {
	return &Cost{Total: total, Colorless: colorless}
}

// Colored returns the part of the cost only colored mana can pay.
func (c *Cost) Colored() int {
	return c.Total - c.Colorless
}

// IsFree reports whether the cost is present and zero.
func (c *Cost) IsFree() bool {
	return c != nil && c.Total == 0
}

// String returns the original symbols when known.
func (c *Cost) String() string {
	if c == nil {
		return "-"
	}
	if c.symbols != "" {
		return c.symbols
	}
	return fmt.Sprintf("%d (%d colorless)", c.Total, c.Colorless)
}
