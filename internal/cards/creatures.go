package cards

import (
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/counters"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// Sakura-Tribe Elder: sacrifice it to put a basic land onto the
// battlefield tapped.
type sakuraTribeElder struct{ game.BaseCapability }

func (sakuraTribeElder) CanActivate(s *game.State, c *game.Card) bool {
	return s.Battlefield.Contains(c) && s.CanSearchFor(game.BasicLand, c.Def.ActivationCost)
}

func (sakuraTribeElder) Activate(s *game.State, c *game.Card) {
	for _, land := range fetchLands(s, 1) {
		s.PutLand(land, true)
	}
	s.Battlefield.Remove(c)
	s.Graveyard.Add(c)
	s.CreatureDied = true
	s.Logf("  %s was sacrificed", c.Name())
}

func SakuraTribeElder() *game.Definition {
	return &game.Definition{
		Name:           "Sakura-Tribe Elder",
		Type:           game.CardTypeCreature,
		Cost:           mana.MustParseCost("{1}{G}"),
		ActivationCost: mana.NewCost(0, 0),
		Capability:     sakuraTribeElder{},
	}
}

// Arboreal Grazer: puts a land from hand onto the battlefield tapped. Only
// worth casting with a land in hand.
type arborealGrazer struct{ game.BaseCapability }

func (arborealGrazer) CanPlay(s *game.State, c *game.Card) bool {
	return s.Ledger.CanPay(c.Def.Cost) && hasLandInHand(s)
}

func (arborealGrazer) Play(s *game.State, c *game.Card) {
	s.Resolve(c)
	if land := s.Hand.Find(game.OfType(game.CardTypeLand)); land != nil {
		s.Hand.Remove(land)
		s.PutLand(land, true)
	}
}

func ArborealGrazer() *game.Definition {
	return &game.Definition{
		Name:       "Arboreal Grazer",
		Type:       game.CardTypeCreature,
		Cost:       mana.MustParseCost("{G}"),
		Capability: arborealGrazer{},
	}
}

// manaDork is a creature that taps for mana from the next turn on. It is
// counted as a new source without adding mana now.
type manaDork struct{ game.BaseCapability }

func (manaDork) Play(s *game.State, c *game.Card) {
	s.Ledger.AddSources(1, 0, false)
	s.Resolve(c)
}

func ElvishMystic() *game.Definition {
	return &game.Definition{
		Name:       "Elvish Mystic",
		Type:       game.CardTypeCreature,
		Cost:       mana.MustParseCost("{G}"),
		Capability: manaDork{},
	}
}

func LlanowarElves() *game.Definition {
	return &game.Definition{
		Name:       "Llanowar Elves",
		Type:       game.CardTypeCreature,
		Cost:       mana.MustParseCost("{G}"),
		Capability: manaDork{},
	}
}

// Wall of Roots: a source that can be used the turn it comes down.
type wallOfRoots struct{ game.BaseCapability }

func (wallOfRoots) Play(s *game.State, c *game.Card) {
	s.Ledger.AddSources(1, 0, true)
	s.Resolve(c)
}

func WallOfRoots() *game.Definition {
	return &game.Definition{
		Name:       "Wall of Roots",
		Type:       game.CardTypeCreature,
		Cost:       mana.MustParseCost("{1}{G}"),
		Capability: wallOfRoots{},
	}
}

// attacker is a creature that enters tapped, which stands in for summoning
// sickness, and attacks for a fixed amount whenever it is untapped.
type attacker struct {
	game.BaseCapability
	power int
}

func (attacker) Resolve(s *game.State, c *game.Card) {
	c.Tapped = true
	s.Battlefield.Add(c)
}

func (attacker) CanActivate(s *game.State, c *game.Card) bool {
	return !c.Tapped && s.Battlefield.Contains(c)
}

func (a attacker) Activate(s *game.State, c *game.Card) {
	c.Tapped = true
	s.DealDamage(c, a.power)
}

// Chancellor of the Tangle also adds one mana on turn 1 when it is in the
// opening hand.
type chancellorOfTheTangle struct{ attacker }

func (chancellorOfTheTangle) Upkeep(s *game.State, c *game.Card) {
	if s.Turn == 1 && s.Hand.Contains(c) {
		s.Logf("  %s adding 1 to mana pool", c.Name())
		s.Ledger.AddTemporary(1, 0)
	}
}

func ChancellorOfTheTangle() *game.Definition {
	return &game.Definition{
		Name:           "Chancellor of the Tangle",
		Type:           game.CardTypeCreature,
		Cost:           mana.MustParseCost("{4}{G}{G}{G}"),
		ActivationCost: mana.NewCost(0, 0),
		Flags:          game.ForcedAttacker,
		Capability:     chancellorOfTheTangle{attacker{power: 6}},
	}
}

// Panglacial Wurm can be cast from the library while it is being searched.
func PanglacialWurm() *game.Definition {
	return &game.Definition{
		Name:           "Panglacial Wurm",
		Type:           game.CardTypeCreature,
		Cost:           mana.MustParseCost("{5}{G}{G}"),
		ActivationCost: mana.NewCost(0, 0),
		Flags:          game.ForcedAttacker | game.CastWhileSearching,
		Capability:     attacker{power: 9},
	}
}

// Lotus Cobra adds one mana whenever a land enters.
type lotusCobra struct{ game.BaseCapability }

func (lotusCobra) OnLandfall(s *game.State, self, land *game.Card) {
	self.Counters.Add(counters.CounterTypeLandfall, 1)
	s.Logf("  %s: landfall adds 1 mana", self.Name())
	s.Ledger.AddTemporary(1, 0)
}

func LotusCobra() *game.Definition {
	return &game.Definition{
		Name:       "Lotus Cobra",
		Type:       game.CardTypeCreature,
		Cost:       mana.MustParseCost("{1}{G}"),
		Capability: lotusCobra{},
	}
}

// Elvish Spirit Guide is exiled from hand for one mana, which can be held
// across turns.
type elvishSpiritGuide struct{ game.BaseCapability }

func (elvishSpiritGuide) Play(s *game.State, c *game.Card) {
	s.Exile.Add(c)
	s.Ledger.AddPersistent(1, 0)
}

func ElvishSpiritGuide() *game.Definition {
	return &game.Definition{
		Name:       "Elvish Spirit Guide",
		Type:       game.CardTypeCreature,
		Cost:       mana.NewCost(0, 0),
		Flags:      game.ManaConverter,
		Capability: elvishSpiritGuide{},
	}
}
