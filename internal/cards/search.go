package cards

import (
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/counters"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// Lay of the Land: search for a basic land and put it into your hand.
// It is legal with no land left, the search then simply finds nothing.
type layOfTheLand struct{ game.BaseCapability }

func (layOfTheLand) Play(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 1)...)
	s.Resolve(c)
}

func LayOfTheLand() *game.Definition {
	return &game.Definition{
		Name:       "Lay of the Land",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{G}"),
		Capability: layOfTheLand{},
	}
}

// Caravan Vigil: a land to hand, or onto the battlefield with morbid. The
// morbid mode is the alternate play.
type caravanVigil struct{ game.BaseCapability }

func (caravanVigil) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (caravanVigil) Play(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 1)...)
	s.Resolve(c)
}

func (caravanVigil) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.CreatureDied && s.Library.Find(game.BasicLand) != nil
}

func (caravanVigil) AltPlay(s *game.State, c *game.Card) {
	for _, land := range fetchLands(s, 1) {
		s.PutLand(land, false)
	}
	s.Resolve(c)
}

func CaravanVigil() *game.Definition {
	return &game.Definition{
		Name:       "Caravan Vigil",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{G}"),
		AltCost:    mana.MustParseCost("{G}"),
		Flags:      game.PreferAlternate | game.Deferrable,
		Capability: caravanVigil{},
	}
}

// Reclaim the Wastes: one land to hand, or two when entwined.
type reclaimTheWastes struct{ game.BaseCapability }

func (reclaimTheWastes) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (reclaimTheWastes) Play(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 1)...)
	s.Resolve(c)
}

func (reclaimTheWastes) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.Library.Count(game.BasicLand) > 1
}

func (reclaimTheWastes) AltPlay(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 2)...)
	s.Resolve(c)
}

func ReclaimTheWastes() *game.Definition {
	return &game.Definition{
		Name: "Reclaim the Wastes",
		Type: game.CardTypeSorcery,
		Cost: mana.MustParseCost("{G}"),
		// entwine {3}
		AltCost:    mana.MustParseCost("{3}{G}"),
		Flags:      game.Deferrable,
		Capability: reclaimTheWastes{},
	}
}

// Land Grant: a land to hand, free when the hand holds no land.
type landGrant struct{ game.BaseCapability }

func (landGrant) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (landGrant) Play(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 1)...)
	s.Resolve(c)
}

func (landGrant) CanAltPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.AltCost) && !hasLandInHand(s)
}

func (landGrant) AltPlay(s *game.State, c *game.Card) {
	s.Hand.Add(fetchLands(s, 1)...)
	s.Resolve(c)
}

func LandGrant() *game.Definition {
	return &game.Definition{
		Name:       "Land Grant",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{1}{G}"),
		AltCost:    mana.NewCost(0, 0),
		Flags:      game.PreferAlternate | game.FreeAlternate,
		Capability: landGrant{},
	}
}

// Rampant Growth: a land onto the battlefield tapped.
type rampantGrowth struct{ game.BaseCapability }

func (rampantGrowth) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (rampantGrowth) Play(s *game.State, c *game.Card) {
	for _, land := range fetchLands(s, 1) {
		s.PutLand(land, true)
	}
	s.Resolve(c)
}

func RampantGrowth() *game.Definition {
	return &game.Definition{
		Name:       "Rampant Growth",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{1}{G}"),
		Capability: rampantGrowth{},
	}
}

// Nissa's Pilgrimage: two lands, one onto the battlefield tapped and the
// rest to hand. With spell mastery it finds three; that mode is the
// alternate play.
type nissasPilgrimage struct{ game.BaseCapability }

func (nissasPilgrimage) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (p nissasPilgrimage) Play(s *game.State, c *game.Card) {
	p.pilgrimage(s, c, 2)
}

func (nissasPilgrimage) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.HasSpellMastery() && s.Library.Count(game.BasicLand) > 2
}

func (p nissasPilgrimage) AltPlay(s *game.State, c *game.Card) {
	p.pilgrimage(s, c, 3)
}

func (nissasPilgrimage) pilgrimage(s *game.State, c *game.Card, n int) {
	lands := fetchLands(s, n)
	if len(lands) > 0 {
		s.PutLand(lands[len(lands)-1], true)
		s.Hand.Add(lands[:len(lands)-1]...)
	}
	s.Resolve(c)
}

func NissasPilgrimage() *game.Definition {
	return &game.Definition{
		Name:       "Nissa's Pilgrimage",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{2}{G}"),
		AltCost:    mana.MustParseCost("{2}{G}"),
		Flags:      game.PreferAlternate,
		Capability: nissasPilgrimage{},
	}
}

// Search for Tomorrow: a land onto the battlefield untapped. Suspend 2 is
// the alternate play; the card waits in exile and is cast from the upkeep
// that removes its last time counter.
type searchForTomorrow struct{ game.BaseCapability }

const suspendTime = 2

func (searchForTomorrow) CanPlay(s *game.State, c *game.Card) bool {
	return canFetch(s, c.Def.Cost)
}

func (searchForTomorrow) Play(s *game.State, c *game.Card) {
	for _, land := range fetchLands(s, 1) {
		s.PutLand(land, false)
	}
	s.Resolve(c)
}

func (searchForTomorrow) CanAltPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost) && s.CanSearchFor(game.BasicLand, nil)
}

func (searchForTomorrow) AltPlay(s *game.State, c *game.Card) {
	c.Counters.Add(counters.CounterTypeTime, suspendTime)
	s.Exile.Add(c)
}

func (sft searchForTomorrow) Upkeep(s *game.State, c *game.Card) {
	if !s.Exile.Contains(c) {
		return
	}
	c.Counters.Remove(counters.CounterTypeTime, 1)
	left := c.Counters.Get(counters.CounterTypeTime)
	s.Logf("  Suspend: %s has %d time counters", c.Name(), left)
	if left > 0 {
		return
	}
	s.Exile.Remove(c)
	s.Logf("  Cast %s from exile", c.Name())
	sft.Play(s, c)
}

func SearchForTomorrow() *game.Definition {
	return &game.Definition{
		Name:       "Search for Tomorrow",
		Type:       game.CardTypeSorcery,
		Cost:       mana.MustParseCost("{2}{G}"),
		AltCost:    mana.MustParseCost("{G}"),
		Capability: searchForTomorrow{},
	}
}
