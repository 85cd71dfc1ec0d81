package game

import "fmt"

// StepNextActions computes, memoizes and returns the successors of s.
//
// Actions that cost nothing to take right away are collapsed into a single
// child, so the only real branching happens in the general branch. The
// ladder stops at the first level that produced a child:
//
//  1. a won game is its own only child
//  2. an armed free cast is taken
//  3. mana converters in hand are cashed in
//  4. landfall cards are played ahead of the land drop
//  5. lands are played, as many as the drops allow
//  6. a zero cost free-alternate card is played
//  7. forced attackers attack
//  8. general branch: one child per distinct card name in hand and per
//     activatable permanent
//  9. the turn passes
func (s *State) StepNextActions() ([]*State, error) {
	if s.Pruned {
		return nil, nil
	}
	if len(s.Children) > 0 {
		return s.Children, nil
	}

	if s.IsWin() {
		s.Logf("!!!You are a win!!!")
		s.Children = []*State{s}
		s.snap = nil
		return s.Children, nil
	}

	steps := []func() ([]*State, error){
		s.stepFreeCast,
		s.stepManaConverters,
		s.stepLandfall,
		s.stepLandDrop,
		s.stepFreeAlternate,
		s.stepForcedAttack,
		s.stepGeneral,
	}
	var children []*State
	for _, step := range steps {
		next, err := step()
		if err != nil {
			return nil, err
		}
		if len(next) > 0 {
			children = next
			break
		}
	}
	if len(children) == 0 {
		children = []*State{s.nextTurn()}
	}

	if s.opts.Prune != nil {
		for _, child := range children {
			if s.opts.Prune(child) {
				child.Pruned = true
			}
		}
	}
	s.Children = children
	// Children are memoized, nothing will be cloned from s again.
	s.snap = nil
	return children, nil
}

func (s *State) child(action string) *State {
	c := s.Clone()
	c.Action = action
	return c
}

func (s *State) nextTurn() *State {
	c := s.child("next turn")
	c.StartTurn()
	return c
}

func (s *State) stepFreeCast() ([]*State, error) {
	if s.PendingFreeCast == "" {
		return nil, nil
	}
	name := s.PendingFreeCast
	c := s.child("cast " + name + " while searching")
	// The opportunity is gone for the parent whether or not it is taken.
	s.PendingFreeCast = ""
	c.PendingFreeCast = ""

	card := c.Library.FindByName(name)
	if card == nil {
		return nil, &IllegalActionError{Action: "cast while searching", Card: name, Reason: "not in library", Turn: c.Turn}
	}
	c.Library.Remove(card)
	c.Hand.Add(card)
	if err := c.Play(card); err != nil {
		return nil, fmt.Errorf("free cast: %w", err)
	}
	return []*State{c}, nil
}

// playAll repeatedly plays the first hand card matching p that is legal,
// until none is left. It returns nil when nothing was legal in s.
func (s *State) playAll(action string, p CardPredicate) ([]*State, error) {
	if s.Hand.Find(func(card *Card) bool { return p(card) && s.CanPlay(card) }) == nil {
		return nil, nil
	}
	c := s.child(action)
	for {
		card := c.Hand.Find(func(card *Card) bool { return p(card) && c.CanPlay(card) })
		if card == nil {
			break
		}
		if err := c.Play(card); err != nil {
			return nil, err
		}
	}
	return []*State{c}, nil
}

func (s *State) stepManaConverters() ([]*State, error) {
	return s.playAll("mana converters", func(card *Card) bool {
		return card.Def.Has(ManaConverter)
	})
}

func (s *State) landDropPending() bool {
	return s.LandDrops > 0 && s.Hand.Find(func(card *Card) bool {
		return card.Is(CardTypeLand) && s.CanPlay(card)
	}) != nil
}

func (s *State) stepLandfall() ([]*State, error) {
	if !s.landDropPending() {
		return nil, nil
	}
	return s.playAll("landfall", func(card *Card) bool {
		_, ok := card.Def.Capability.(LandfallTrigger)
		return ok && !card.Is(CardTypeLand)
	})
}

func (s *State) stepLandDrop() ([]*State, error) {
	if s.LandDrops <= 0 {
		return nil, nil
	}
	return s.playAll("land drop", OfType(CardTypeLand))
}

func (s *State) stepFreeAlternate() ([]*State, error) {
	for i, card := range s.Hand {
		if !card.Def.Has(FreeAlternate) || !card.Def.AltCost.IsFree() || !s.CanAltPlay(card) {
			continue
		}
		c := s.child("alt play " + card.Name())
		if err := c.AltPlay(c.Hand[i]); err != nil {
			return nil, err
		}
		return []*State{c}, nil
	}
	return nil, nil
}

func (s *State) stepForcedAttack() ([]*State, error) {
	var attackers []int
	for i, card := range s.Battlefield {
		if card.Def.Has(ForcedAttacker) && s.CanActivate(card) {
			attackers = append(attackers, i)
		}
	}
	if len(attackers) == 0 {
		return nil, nil
	}

	c := s.child("attack")
	// Attacking never moves cards, so battlefield positions stay valid.
	attacking := make([]*Card, len(attackers))
	for j, i := range attackers {
		attacking[j] = c.Battlefield[i]
	}
	for _, card := range attacking {
		if !c.CanActivate(card) {
			continue
		}
		if err := c.Activate(card); err != nil {
			return nil, err
		}
	}
	return []*State{c}, nil
}

func (s *State) stepGeneral() ([]*State, error) {
	var children []*State
	deferrable := false

	seen := make(map[string]struct{})
	for i, card := range s.Hand {
		if _, ok := seen[card.Name()]; ok {
			continue
		}
		seen[card.Name()] = struct{}{}

		canAlt := s.CanAltPlay(card)
		canPlay := s.CanPlay(card) && !(canAlt && card.Def.Has(PreferAlternate))
		if (canPlay || canAlt) && card.Def.Has(Deferrable) {
			deferrable = true
		}

		if canPlay {
			c := s.child("play " + card.Name())
			if err := c.Play(c.Hand[i]); err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if canAlt {
			c := s.child("alt play " + card.Name())
			if err := c.AltPlay(c.Hand[i]); err != nil {
				return nil, err
			}
			children = append(children, c)
		}
	}

	for i, card := range s.Battlefield {
		if !s.CanActivate(card) {
			continue
		}
		c := s.child("activate " + card.Name())
		if err := c.Activate(c.Battlefield[i]); err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	if deferrable && s.opts.AllowDeferral {
		children = append(children, s.nextTurn())
	}
	return children, nil
}
