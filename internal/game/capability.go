package game

// Capability is the rules behaviour of a card.
//
// Play, AltPlay and Activate are only invoked by State after the matching
// CanPlay, CanAltPlay or CanActivate returned true on the same state, and
// after the corresponding cost has been paid.
type Capability interface {
	CanPlay(s *State, c *Card) bool
	Play(s *State, c *Card)

	CanAltPlay(s *State, c *Card) bool
	AltPlay(s *State, c *Card)

	CanActivate(s *State, c *Card) bool
	Activate(s *State, c *Card)

	// Resolve moves a card that finished being played to its final zone.
	Resolve(s *State, c *Card)

	// Upkeep runs at the beginning of every turn for every card in every zone.
	Upkeep(s *State, c *Card)
}

// LandfallTrigger is implemented by capabilities that react to a land
// entering the battlefield while their card is on it.
type LandfallTrigger interface {
	OnLandfall(s *State, self *Card, land *Card)
}

// BaseCapability provides the default behaviour. Card capabilities embed it
// and override what differs.
type BaseCapability struct{}

// CanPlay is true when the primary cost is present and affordable.
func (BaseCapability) CanPlay(s *State, c *Card) bool {
	return s.Ledger.CanPay(c.Def.Cost)
}

// Play resolves the card.
func (BaseCapability) Play(s *State, c *Card) {
	s.Resolve(c)
}

// CanAltPlay is true when the alternate cost is present and affordable.
func (BaseCapability) CanAltPlay(s *State, c *Card) bool {
	return s.Ledger.CanPay(c.Def.AltCost)
}

// AltPlay resolves the card.
func (BaseCapability) AltPlay(s *State, c *Card) {
	s.Resolve(c)
}

// CanActivate is true when the card is on the battlefield and the
// activation cost is present and affordable.
func (BaseCapability) CanActivate(s *State, c *Card) bool {
	return s.Ledger.CanPay(c.Def.ActivationCost) && s.Battlefield.Contains(c)
}

func (BaseCapability) Activate(s *State, c *Card) {}

// Resolve puts permanents onto the battlefield and everything else into the
// graveyard.
func (BaseCapability) Resolve(s *State, c *Card) {
	if c.Def.Type.IsPermanent() {
		s.Battlefield.Add(c)
		return
	}
	s.Graveyard.Add(c)
}

func (BaseCapability) Upkeep(s *State, c *Card) {}
