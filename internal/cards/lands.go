package cards

import (
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/mana"
)

type basicLand struct{ game.BaseCapability }

func (basicLand) CanPlay(s *game.State, c *game.Card) bool {
	return s.LandDrops > 0
}

// Every land is tapped for mana as soon as it enters untapped.
func (basicLand) Play(s *game.State, c *game.Card) {
	s.LandDrops--
	s.PutLand(c, false)
}

// Forest is the only land of the pool.
func Forest() *game.Definition {
	return &game.Definition{
		Name:       "Forest",
		Type:       game.CardTypeLand,
		Cost:       mana.NewCost(0, 0),
		Flags:      game.Basic,
		Capability: basicLand{},
	}
}

// fetchLands searches up to n basic lands out of the library.
func fetchLands(s *game.State, n int) []*game.Card {
	return s.SearchLibrary(game.BasicLand, n)
}

// canFetch reports whether a land search paying cost is worth casting.
func canFetch(s *game.State, cost *mana.Cost) bool {
	return s.Ledger.CanPay(cost) && s.CanSearchFor(game.BasicLand, cost)
}

func hasLandInHand(s *game.State) bool {
	return s.Hand.Find(game.OfType(game.CardTypeLand)) != nil
}
