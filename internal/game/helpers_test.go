package game

import (
	"testing"

	"github.com/magefree/mage-goldfish/internal/game/counters"
	"github.com/magefree/mage-goldfish/internal/game/mana"
	"github.com/stretchr/testify/require"
)

type landCap struct{ BaseCapability }

func (landCap) CanPlay(s *State, c *Card) bool { return s.LandDrops > 0 }

func (landCap) Play(s *State, c *Card) {
	s.LandDrops--
	s.PutLand(c, false)
}

type attackerCap struct {
	BaseCapability
	damage int
}

func (a attackerCap) CanActivate(s *State, c *Card) bool {
	return !c.Tapped && a.BaseCapability.CanActivate(s, c)
}

func (a attackerCap) Activate(s *State, c *Card) {
	c.Tapped = true
	s.DealDamage(c, a.damage)
}

func (attackerCap) Resolve(s *State, c *Card) {
	c.Tapped = true
	BaseCapability{}.Resolve(s, c)
}

type tutorCap struct{ BaseCapability }

func (tutorCap) CanPlay(s *State, c *Card) bool {
	return s.Ledger.CanPay(c.Def.Cost) && s.CanSearchFor(BasicLand, c.Def.Cost)
}

func (tutorCap) Play(s *State, c *Card) {
	s.Hand.Add(s.SearchLibrary(BasicLand, 1)...)
	s.Resolve(c)
}

type converterCap struct{ BaseCapability }

func (converterCap) Play(s *State, c *Card) {
	s.Exile.Add(c)
	s.Ledger.AddPersistent(1, 0)
}

type cobraCap struct{ BaseCapability }

func (cobraCap) OnLandfall(s *State, self, land *Card) {
	s.Ledger.AddTemporary(1, 0)
}

type grantCap struct{ BaseCapability }

func (g grantCap) CanAltPlay(s *State, c *Card) bool {
	return g.BaseCapability.CanAltPlay(s, c) && s.Hand.Count(OfType(CardTypeLand)) == 0
}

func (grantCap) AltPlay(s *State, c *Card) {
	s.Hand.Add(s.SearchLibrary(BasicLand, 1)...)
	s.Resolve(c)
}

type suspendCap struct{ BaseCapability }

func (suspendCap) AltPlay(s *State, c *Card) {
	c.Counters.Add(counters.CounterTypeTime, 2)
	s.Exile.Add(c)
}

func (suspendCap) Upkeep(s *State, c *Card) {
	if !s.Exile.Contains(c) {
		return
	}
	c.Counters.Remove(counters.CounterTypeTime, 1)
	if c.Counters.Has(counters.CounterTypeTime) {
		return
	}
	s.Exile.Remove(c)
	s.Resolve(c)
}

var (
	testForest = &Definition{
		Name: "Forest", Type: CardTypeLand, Cost: mana.NewCost(0, 0),
		Flags: Basic, Capability: landCap{},
	}
	testAttacker = &Definition{
		Name: "Attacker", Type: CardTypeCreature, Cost: mana.MustParseCost("{4}{G}{G}{G}"),
		ActivationCost: mana.NewCost(0, 0), Flags: ForcedAttacker, Capability: attackerCap{damage: 6},
	}
	testBear = &Definition{
		Name: "Bear", Type: CardTypeCreature, Cost: mana.MustParseCost("{1}{G}"),
		Capability: BaseCapability{},
	}
	testSpell = &Definition{
		Name: "Spell", Type: CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Capability: BaseCapability{},
	}
	testTutor = &Definition{
		Name: "Tutor", Type: CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Capability: tutorCap{},
	}
	testConverter = &Definition{
		Name: "Converter", Type: CardTypeCreature, Cost: mana.NewCost(0, 0),
		Flags: ManaConverter, Capability: converterCap{},
	}
	testCobra = &Definition{
		Name: "Cobra", Type: CardTypeCreature, Cost: mana.MustParseCost("{1}{G}"),
		Capability: cobraCap{},
	}
	testGrant = &Definition{
		Name: "Grant", Type: CardTypeSorcery, Cost: mana.MustParseCost("{1}{G}"), AltCost: mana.NewCost(0, 0),
		Flags: FreeAlternate | PreferAlternate, Capability: grantCap{},
	}
	testWurm = &Definition{
		Name: "Wurm", Type: CardTypeCreature, Cost: mana.MustParseCost("{1}{G}"),
		ActivationCost: mana.NewCost(0, 0), Flags: CastWhileSearching | ForcedAttacker, Capability: attackerCap{damage: 9},
	}
	testDeferred = &Definition{
		Name: "Deferred", Type: CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Flags: Deferrable, Capability: BaseCapability{},
	}
	testSuspend = &Definition{
		Name: "Suspend", Type: CardTypeSorcery, Cost: mana.MustParseCost("{2}{G}"), AltCost: mana.MustParseCost("{G}"),
		Capability: suspendCap{},
	}
)

func repeat(def *Definition, n int) []*Definition {
	defs := make([]*Definition, n)
	for i := range defs {
		defs[i] = def
	}
	return defs
}

func deck(groups ...[]*Definition) []*Definition {
	var defs []*Definition
	for _, g := range groups {
		defs = append(defs, g...)
	}
	return defs
}

// newTestState builds a pregame state on turn 1 with one land drop and no
// cards drawn.
func newTestState(t *testing.T, opts Options, defs ...*Definition) *State {
	t.Helper()
	s := NewState(defs, 42, opts)
	s.Turn = 1
	s.LandDrops = 1
	return s
}

func fromLibrary(t *testing.T, s *State, name string) *Card {
	t.Helper()
	c := s.Library.FindByName(name)
	require.NotNil(t, c, "%s not in library", name)
	require.True(t, s.Library.Remove(c))
	return c
}

func toHand(t *testing.T, s *State, name string) *Card {
	t.Helper()
	c := fromLibrary(t, s, name)
	s.Hand.Add(c)
	return c
}

func toBattlefield(t *testing.T, s *State, name string) *Card {
	t.Helper()
	c := fromLibrary(t, s, name)
	s.Battlefield.Add(c)
	return c
}

func actions(children []*State) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Action
	}
	return out
}
