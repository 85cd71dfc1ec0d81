package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/magefree/mage-goldfish/internal/game/counters"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// CardType is the type line tag of a card.
type CardType string

const (
	CardTypeLand        CardType = "Land"
	CardTypeCreature    CardType = "Creature"
	CardTypeArtifact    CardType = "Artifact"
	CardTypeEnchantment CardType = "Enchantment"
	CardTypeInstant     CardType = "Instant"
	CardTypeSorcery     CardType = "Sorcery"
)

// IsPermanent reports whether a card of this type stays on the battlefield
// when it resolves.
func (t CardType) IsPermanent() bool {
	return t != CardTypeInstant && t != CardTypeSorcery
}

// Flags are static hints a definition gives the action enumerator.
type Flags uint16

const (
	// PreferAlternate skips the primary play when the alternate play is legal.
	PreferAlternate Flags = 1 << iota
	// Deferrable lets the enumerator branch on not playing the card this turn.
	Deferrable
	// ManaConverter cards turn into mana with no decision value and are
	// played as soon as they are legal.
	ManaConverter
	// FreeAlternate marks a utility card whose zero cost alternate play is
	// always taken.
	FreeAlternate
	// ForcedAttacker creatures attack whenever they can.
	ForcedAttacker
	// CastWhileSearching cards may be cast from the library while it is
	// being searched.
	CastWhileSearching
	// Basic marks basic lands, the target of land searches.
	Basic
)

// Definition is the shared, read-only description of a card. All instances of
// a card in every state point at the same Definition.
type Definition struct {
	Name string
	Type CardType

	// Cost is the primary cost; nil means the card cannot be cast normally.
	Cost *mana.Cost
	// AltCost is the alternate cost; nil means there is no alternate play.
	AltCost *mana.Cost
	// ActivationCost is the cost of the card's activated ability; nil means
	// the card has none.
	ActivationCost *mana.Cost

	Flags      Flags
	Capability Capability
}

// Has reports whether every bit of f is set.
func (d *Definition) Has(f Flags) bool {
	return d.Flags&f == f
}

// IsBasicLand reports whether the definition is a basic land.
func (d *Definition) IsBasicLand() bool {
	return d.Type == CardTypeLand && d.Has(Basic)
}

func (d *Definition) String() string {
	return d.Name
}

// Card is one instance of a definition inside a game.
type Card struct {
	ID       uuid.UUID
	Def      *Definition
	Tapped   bool
	Counters counters.Counters
}

// NewCard creates an untapped instance with no counters.
func NewCard(id uuid.UUID, def *Definition) *Card {
	return &Card{
		ID:       id,
		Def:      def,
		Tapped:   false,
		Counters: counters.Counters{},
	}
}

// Name returns the definition name.
func (c *Card) Name() string {
	return c.Def.Name
}

// Is reports whether the card has the given type.
func (c *Card) Is(t CardType) bool {
	return c.Def.Type == t
}

// IsBasicLand reports whether the card is a basic land.
func (c *Card) IsBasicLand() bool {
	return c.Def.IsBasicLand()
}

func (c *Card) String() string {
	if c.Tapped {
		return fmt.Sprintf("%s (tapped)", c.Def.Name)
	}
	return c.Def.Name
}

// CardPredicate selects cards in zone queries and searches.
type CardPredicate func(*Card) bool

// Named matches cards with the given name.
func Named(name string) CardPredicate {
	return func(c *Card) bool { return c.Def.Name == name }
}

// OfType matches cards of the given type.
func OfType(t CardType) CardPredicate {
	return func(c *Card) bool { return c.Def.Type == t }
}

// BasicLand matches basic lands.
func BasicLand(c *Card) bool {
	return c.IsBasicLand()
}

// Not negates a predicate.
func Not(p CardPredicate) CardPredicate {
	return func(c *Card) bool { return !p(c) }
}
