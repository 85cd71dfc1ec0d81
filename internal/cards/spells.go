package cards

import (
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// Explore: one more land drop this turn, then draw a card.
type explore struct{ game.BaseCapability }

func (explore) Play(s *game.State, c *game.Card) {
	s.LandDrops++
	s.Draw(1)
	s.Resolve(c)
}

func Explore() *game.Definition {
	return &game.Definition{
		Name:       "Explore",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{1}{G}"),
		Capability: explore{},
	}
}

// Wild Growth enchants a land. It counts as one more source, and adds one
// mana now when an untapped source was left to enchant.
type wildGrowth struct{ game.BaseCapability }

func (wildGrowth) CanPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.Cost) && s.Battlefield.Find(game.OfType(game.CardTypeLand)) != nil
}

func (wildGrowth) Play(s *game.State, c *game.Card) {
	s.Ledger.AddSources(1, 0, false)
	if s.Ledger.TempColored+s.Ledger.TempColorless > 0 {
		s.Ledger.AddTemporary(1, 0)
	}
	s.Resolve(c)
}

func WildGrowth() *game.Definition {
	return &game.Definition{
		Name:       "Wild Growth",
		Type:       game.CardTypeEnchantment,
		Cost:       mana.MustParseCost("{G}"),
		Capability: wildGrowth{},
	}
}

// Recross the Paths reveals until a land, puts it onto the battlefield
// untapped and the rest on the bottom, Charbelchers above the others. The
// clash is always won, so the card returns to hand.
type recrossThePaths struct{ game.BaseCapability }

func (recrossThePaths) Play(s *game.State, c *game.Card) {
	revealed, land := s.RevealUntil(game.OfType(game.CardTypeLand))
	var belchers, rest []*game.Card
	for _, card := range revealed {
		switch {
		case card == land:
		case card.Name() == "Goblin Charbelcher":
			belchers = append(belchers, card)
		default:
			rest = append(rest, card)
		}
	}
	if land != nil {
		s.Logf("  %s: found a land", c.Name())
		s.PutLand(land, false)
	} else {
		s.Logf("  %s: no land found, library stacked", c.Name())
	}
	s.Library.PushBottom(belchers...)
	s.Library.PushBottom(rest...)
	s.Hand.Add(c)
}

func RecrossThePaths() *game.Definition {
	return &game.Definition{
		Name:       "Recross the Paths",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{2}{G}"),
		Capability: recrossThePaths{},
	}
}

// Ancient Stirrings looks at the top five cards and takes a colorless one.
// The primary play takes an artifact, the alternate play a land. Each is
// only legal when the top five hold a hit.
type ancientStirrings struct{ game.BaseCapability }

const stirringsDepth = 5

func (ancientStirrings) CanPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.Cost) && s.Library.CountTop(game.OfType(game.CardTypeArtifact), stirringsDepth) > 0
}

func (a ancientStirrings) Play(s *game.State, c *game.Card) {
	a.stirrings(s, c, game.CardTypeArtifact)
}

func (ancientStirrings) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.Library.CountTop(game.OfType(game.CardTypeLand), stirringsDepth) > 0
}

func (a ancientStirrings) AltPlay(s *game.State, c *game.Card) {
	a.stirrings(s, c, game.CardTypeLand)
}

func (ancientStirrings) stirrings(s *game.State, c *game.Card, want game.CardType) {
	var looked []*game.Card
	for i := 0; i < stirringsDepth; i++ {
		card := s.Library.PopTop()
		if card == nil {
			break
		}
		looked = append(looked, card)
	}

	var found *game.Card
	for _, card := range looked {
		if card.Is(want) {
			found = card
		}
	}
	rest := make([]*game.Card, 0, len(looked))
	for _, card := range looked {
		if card != found {
			rest = append(rest, card)
		}
	}
	if found != nil {
		s.Hand.Add(found)
		s.Logf("  %s took %s", c.Name(), found.Name())
	}
	s.Library.PushBottom(rest...)
	s.Resolve(c)
}

func AncientStirrings() *game.Definition {
	return &game.Definition{
		Name:       "Ancient Stirrings",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{G}"),
		AltCost:    mana.MustParseCost("{G}"),
		Capability: ancientStirrings{},
	}
}

// Abundant Harvest reveals until a land (primary play) or a nonland
// (alternate play) and puts it into hand, the rest on the bottom.
type abundantHarvest struct{ game.BaseCapability }

func (abundantHarvest) CanPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.Cost) && s.Library.Find(game.OfType(game.CardTypeLand)) != nil
}

func (h abundantHarvest) Play(s *game.State, c *game.Card) {
	h.harvest(s, c, game.OfType(game.CardTypeLand))
}

func (abundantHarvest) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.Library.Find(game.Not(game.OfType(game.CardTypeLand))) != nil
}

func (h abundantHarvest) AltPlay(s *game.State, c *game.Card) {
	h.harvest(s, c, game.Not(game.OfType(game.CardTypeLand)))
}

func (abundantHarvest) harvest(s *game.State, c *game.Card, want game.CardPredicate) {
	revealed, hit := s.RevealUntil(want)
	rest := revealed
	if hit != nil {
		rest = revealed[:len(revealed)-1]
		s.Hand.Add(hit)
	}
	s.Library.PushBottom(rest...)
	s.Resolve(c)
}

func AbundantHarvest() *game.Definition {
	return &game.Definition{
		Name:       "Abundant Harvest",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{G}"),
		AltCost:    mana.MustParseCost("{G}"),
		Capability: abundantHarvest{},
	}
}
