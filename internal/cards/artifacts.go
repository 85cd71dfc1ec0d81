package cards

import (
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// Goblin Charbelcher reveals cards until a land and deals one damage per
// nonland card revealed, then puts them on the bottom.
//
// It is only activated once no basic land is left in the library, so the
// result does not depend on knowing the library order.
type goblinCharbelcher struct{ game.BaseCapability }

func (b goblinCharbelcher) CanActivate(s *game.State, c *game.Card) bool {
	return !c.Tapped && b.BaseCapability.CanActivate(s, c) && s.Library.Find(game.BasicLand) == nil
}

func (goblinCharbelcher) Activate(s *game.State, c *game.Card) {
	c.Tapped = true
	revealed, _ := s.RevealUntil(game.OfType(game.CardTypeLand))
	damage := game.Zone(revealed).Count(game.Not(game.OfType(game.CardTypeLand)))
	s.Library.PushBottom(revealed...)
	s.Logf("  Belcher with %d lands in library", s.Library.Count(game.BasicLand))
	s.DealDamage(c, damage)
}

func GoblinCharbelcher() *game.Definition {
	return &game.Definition{
		Name:           "Goblin Charbelcher",
		Type:           game.CardTypeArtifact,
		Cost:           mana.MustParseCost("{4}"),
		ActivationCost: mana.MustParseCost("{3}"),
		Capability:     goblinCharbelcher{},
	}
}

// Lotus Petal is sacrificed for one mana as soon as it is cast.
type lotusPetal struct{ game.BaseCapability }

func (lotusPetal) Play(s *game.State, c *game.Card) {
	s.Graveyard.Add(c)
	s.Ledger.AddPersistent(1, 0)
}

func LotusPetal() *game.Definition {
	return &game.Definition{
		Name:       "Lotus Petal",
		Type:       game.CardTypeArtifact,
		Cost:       mana.NewCost(0, 0),
		Flags:      game.ManaConverter,
		Capability: lotusPetal{},
	}
}

// Mind Stone is a colorless source usable right away.
type mindStone struct{ game.BaseCapability }

func (mindStone) Play(s *game.State, c *game.Card) {
	s.Ledger.AddSources(0, 1, true)
	s.Resolve(c)
}

func MindStone() *game.Definition {
	return &game.Definition{
		Name:       "Mind Stone",
		Type:       game.CardTypeArtifact,
		Cost:       mana.MustParseCost("{2}"),
		Capability: mindStone{},
	}
}
