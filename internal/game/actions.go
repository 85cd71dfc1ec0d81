package game

import (
	"math/rand/v2"

	"github.com/magefree/mage-goldfish/internal/game/mana"
)

// Play casts a card from hand for its primary cost.
func (s *State) Play(c *Card) error {
	if !s.Hand.Contains(c) {
		return s.illegal("play", c, "not in hand")
	}
	if !c.Def.Capability.CanPlay(s, c) {
		return s.illegal("play", c, "not playable")
	}
	if err := s.Ledger.Pay(c.Def.Cost); err != nil {
		return s.illegal("play", c, err.Error())
	}
	s.Hand.Remove(c)
	s.Logf(" Play: %s", c.Name())
	c.Def.Capability.Play(s, c)
	return nil
}

// AltPlay casts a card from hand for its alternate cost.
func (s *State) AltPlay(c *Card) error {
	if !s.Hand.Contains(c) {
		return s.illegal("alt play", c, "not in hand")
	}
	if !c.Def.Capability.CanAltPlay(s, c) {
		return s.illegal("alt play", c, "not playable")
	}
	if err := s.Ledger.Pay(c.Def.AltCost); err != nil {
		return s.illegal("alt play", c, err.Error())
	}
	s.Hand.Remove(c)
	s.Logf(" Alt play: %s", c.Name())
	c.Def.Capability.AltPlay(s, c)
	return nil
}

// Activate uses the activated ability of a card on the battlefield.
func (s *State) Activate(c *Card) error {
	if !s.Battlefield.Contains(c) {
		return s.illegal("activate", c, "not on the battlefield")
	}
	if !c.Def.Capability.CanActivate(s, c) {
		return s.illegal("activate", c, "not activatable")
	}
	if err := s.Ledger.Pay(c.Def.ActivationCost); err != nil {
		return s.illegal("activate", c, err.Error())
	}
	s.Logf(" Activate: %s", c.Name())
	c.Def.Capability.Activate(s, c)
	return nil
}

// CanPlay reports whether c is in hand and its primary play is legal.
func (s *State) CanPlay(c *Card) bool {
	return s.Hand.Contains(c) && c.Def.Capability.CanPlay(s, c)
}

// CanAltPlay reports whether c is in hand and its alternate play is legal.
func (s *State) CanAltPlay(c *Card) bool {
	return s.Hand.Contains(c) && c.Def.AltCost != nil && c.Def.Capability.CanAltPlay(s, c)
}

// CanActivate reports whether c is on the battlefield and can be activated.
func (s *State) CanActivate(c *Card) bool {
	return s.Battlefield.Contains(c) && c.Def.ActivationCost != nil && c.Def.Capability.CanActivate(s, c)
}

// Resolve moves c to its final zone through its own capability.
func (s *State) Resolve(c *Card) {
	c.Def.Capability.Resolve(s, c)
}

// StartTurn advances to the next turn: untap, reset per-turn flags, draw
// the opening hand on turn 1, run every upkeep, then draw for the turn.
func (s *State) StartTurn() {
	s.Turn++
	s.Logf("Beginning turn %d: %s", s.Turn, s.Short())

	s.Ledger.Untap()
	for _, c := range s.Battlefield {
		c.Tapped = false
	}
	s.LandDrops = 1
	s.CreatureDied = false
	s.PendingFreeCast = ""

	if s.Turn == 1 {
		s.Draw(s.opts.OpeningHand)
	}

	// Upkeep may move cards between zones, so walk a copy.
	var upkeep []*Card
	for _, z := range s.Zones() {
		upkeep = append(upkeep, (*z)...)
	}
	for _, c := range upkeep {
		c.Def.Capability.Upkeep(s, c)
	}

	if s.Turn > 1 {
		s.Draw(1)
	}
}

// Draw moves up to n cards from the top of the library to the hand. Drawing
// from an empty library does nothing.
func (s *State) Draw(n int) {
	s.Logf(" Draw %d card(s)", n)
	for i := 0; i < n; i++ {
		c := s.Library.PopTop()
		if c == nil {
			s.Logf("  Library is empty")
			return
		}
		s.Hand.Add(c)
	}
}

// Shuffle reorders the library. The permutation depends only on the seed
// and on how many times the library was shuffled before.
func (s *State) Shuffle() {
	rng := rand.New(rand.NewPCG(s.Seed, s.shuffles))
	s.shuffles++
	rng.Shuffle(len(s.Library), func(i, j int) {
		s.Library[i], s.Library[j] = s.Library[j], s.Library[i]
	})
}

// SearchLibrary removes up to n cards matching p, scanning from the top,
// then shuffles. A library search also arms the free cast of a
// CastWhileSearching card that is affordable right now.
func (s *State) SearchLibrary(p CardPredicate, n int) []*Card {
	var found []*Card
	for i := len(s.Library) - 1; i >= 0 && len(found) < n; i-- {
		if p(s.Library[i]) {
			found = append(found, s.Library[i])
		}
	}
	for _, c := range found {
		s.Library.Remove(c)
	}
	s.Shuffle()
	s.armFreeCast()
	return found
}

func (s *State) armFreeCast() {
	if s.PendingFreeCast != "" {
		return
	}
	for _, c := range s.Library {
		if c.Def.Has(CastWhileSearching) && s.Ledger.CanPay(c.Def.Cost) {
			s.PendingFreeCast = c.Name()
			s.Logf("  %s may be cast while searching", c.Name())
			return
		}
	}
}

// FreeCastPotential reports whether searching the library after paying
// extra could arm a free cast. Cards use it to stay legal when the search
// itself would find nothing.
func (s *State) FreeCastPotential(extra *mana.Cost) bool {
	total, colorless := 0, 0
	if extra != nil {
		total, colorless = extra.Total, extra.Colorless
	}
	for _, c := range s.Library {
		if c.Def.Has(CastWhileSearching) && c.Def.Cost != nil &&
			s.Ledger.HasFunds(c.Def.Cost.Total+total, c.Def.Cost.Colorless+colorless) {
			return true
		}
	}
	return false
}

// CanSearchFor reports whether a search for p is worth casting: the library
// holds a match, or the search could arm a free cast.
func (s *State) CanSearchFor(p CardPredicate, extra *mana.Cost) bool {
	return s.Library.Find(p) != nil || s.FreeCastPotential(extra)
}

// RevealUntil pops cards off the top of the library until one matches p.
// It returns every revealed card, the match included, and the match itself
// (nil when the library ran out).
func (s *State) RevealUntil(p CardPredicate) (revealed []*Card, hit *Card) {
	for {
		c := s.Library.PopTop()
		if c == nil {
			return revealed, nil
		}
		revealed = append(revealed, c)
		if p(c) {
			return revealed, c
		}
	}
}

// PutLand puts a land onto the battlefield as a new mana source. An
// untapped land is tapped for mana right away. Landfall triggers fire for
// every permanent already on the battlefield.
func (s *State) PutLand(land *Card, tapped bool) {
	land.Tapped = tapped
	s.Battlefield.Add(land)
	s.Ledger.AddSources(1, 0, !tapped)
	if tapped {
		s.Logf("  %s enters tapped", land.Name())
	} else {
		s.Logf("  %s enters untapped", land.Name())
	}

	watchers := make([]*Card, 0, len(s.Battlefield))
	watchers = append(watchers, s.Battlefield...)
	for _, c := range watchers {
		if c == land {
			continue
		}
		if trigger, ok := c.Def.Capability.(LandfallTrigger); ok {
			trigger.OnLandfall(s, c, land)
		}
	}
}

// DealDamage lowers the opponent's life total.
func (s *State) DealDamage(source *Card, amount int) {
	s.OpponentLife -= amount
	if s.IsWin() {
		s.Logf("  %s dealt %d damage and won the game", source.Name(), amount)
		return
	}
	s.Logf("  %s dealt %d damage", source.Name(), amount)
}

// HasSpellMastery reports whether the graveyard holds two or more instants
// and sorceries.
func (s *State) HasSpellMastery() bool {
	return s.Graveyard.Count(OfType(CardTypeInstant))+s.Graveyard.Count(OfType(CardTypeSorcery)) >= 2
}
