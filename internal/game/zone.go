package game

import (
	"strings"

	"github.com/google/uuid"
)

// ZoneName identifies one of the five zones of a state.
type ZoneName string

const (
	ZoneLibrary     ZoneName = "library"
	ZoneHand        ZoneName = "hand"
	ZoneBattlefield ZoneName = "battlefield"
	ZoneGraveyard   ZoneName = "graveyard"
	ZoneExile       ZoneName = "exile"
)

// Zone is an ordered list of card instances.
//
// For the library the last element is the top card and index 0 the bottom.
// Other zones keep insertion order.
type Zone []*Card

// Len returns the number of cards.
func (z Zone) Len() int {
	return len(z)
}

// Add appends cards to the zone (on top, for the library).
func (z *Zone) Add(cards ...*Card) {
	*z = append(*z, cards...)
}

// PushBottom puts each card in turn at the very bottom of the library, so
// the last card given ends up lowest.
func (z *Zone) PushBottom(cards ...*Card) {
	if len(cards) == 0 {
		return
	}
	out := make(Zone, 0, len(*z)+len(cards))
	for i := len(cards) - 1; i >= 0; i-- {
		out = append(out, cards[i])
	}
	*z = append(out, *z...)
}

// Top returns the top card without removing it.
func (z Zone) Top() *Card {
	if len(z) == 0 {
		return nil
	}
	return z[len(z)-1]
}

// PopTop removes and returns the top card, or nil when the zone is empty.
func (z *Zone) PopTop() *Card {
	n := len(*z)
	if n == 0 {
		return nil
	}
	c := (*z)[n-1]
	(*z)[n-1] = nil
	*z = (*z)[:n-1]
	return c
}

// Remove removes the given instance. Returns false when it is not present.
func (z *Zone) Remove(c *Card) bool {
	for i, card := range *z {
		if card == c {
			copy((*z)[i:], (*z)[i+1:])
			(*z)[len(*z)-1] = nil
			*z = (*z)[:len(*z)-1]
			return true
		}
	}
	return false
}

// Contains reports whether the given instance is in the zone.
func (z Zone) Contains(c *Card) bool {
	return z.IndexOf(c) >= 0
}

// IndexOf returns the position of the instance or -1.
func (z Zone) IndexOf(c *Card) int {
	for i, card := range z {
		if card == c {
			return i
		}
	}
	return -1
}

// ByID returns the instance with the given ID.
func (z Zone) ByID(id uuid.UUID) *Card {
	for _, card := range z {
		if card.ID == id {
			return card
		}
	}
	return nil
}

// FindByName returns the first instance with the given name in zone order.
func (z Zone) FindByName(name string) *Card {
	for _, card := range z {
		if card.Def.Name == name {
			return card
		}
	}
	return nil
}

// Find returns the first instance matching p in zone order.
func (z Zone) Find(p CardPredicate) *Card {
	for _, card := range z {
		if p(card) {
			return card
		}
	}
	return nil
}

// Count returns how many cards match p.
func (z Zone) Count(p CardPredicate) int {
	n := 0
	for _, card := range z {
		if p(card) {
			n++
		}
	}
	return n
}

// CountName returns how many cards have the given name.
func (z Zone) CountName(name string) int {
	return z.Count(Named(name))
}

// CountTop counts matches among the top n cards of a library.
func (z Zone) CountTop(p CardPredicate, n int) int {
	count := 0
	for i := len(z) - 1; i >= 0 && i >= len(z)-n; i-- {
		if p(z[i]) {
			count++
		}
	}
	return count
}

// Names lists the card names in zone order.
func (z Zone) Names() []string {
	names := make([]string, len(z))
	for i, card := range z {
		names[i] = card.Def.Name
	}
	return names
}

func (z Zone) String() string {
	return strings.Join(z.Names(), ", ")
}
