// Package cards holds the card pool: one constructor per card, a registry
// from card name to constructor, and the decklist parser.
package cards

import (
	"fmt"
	"sort"

	"github.com/magefree/mage-goldfish/internal/game"
)

// Pool maps card names to their constructor functions.
type Pool map[string]func() *game.Definition

// Registry is the full card pool.
var Registry = Pool{
	"Forest":                   Forest,
	"Lay of the Land":          LayOfTheLand,
	"Caravan Vigil":            CaravanVigil,
	"Sakura-Tribe Elder":       SakuraTribeElder,
	"Arboreal Grazer":          ArborealGrazer,
	"Reclaim the Wastes":       ReclaimTheWastes,
	"Land Grant":               LandGrant,
	"Goblin Charbelcher":       GoblinCharbelcher,
	"Elvish Mystic":            ElvishMystic,
	"Llanowar Elves":           LlanowarElves,
	"Rampant Growth":           RampantGrowth,
	"Nissa's Pilgrimage":       NissasPilgrimage,
	"Wall of Roots":            WallOfRoots,
	"Explore":                  Explore,
	"Chancellor of the Tangle": ChancellorOfTheTangle,
	"Wild Growth":              WildGrowth,
	"Search for Tomorrow":      SearchForTomorrow,
	"Recross the Paths":        RecrossThePaths,
	"Ancient Stirrings":        AncientStirrings,
	"Abundant Harvest":         AbundantHarvest,
	"Panglacial Wurm":          PanglacialWurm,
	"Elvish Spirit Guide":      ElvishSpiritGuide,
	"Lotus Petal":              LotusPetal,
	"Lotus Cobra":              LotusCobra,
	"Mind Stone":               MindStone,
}

// Lookup returns a new definition for the named card.
func (p Pool) Lookup(name string) (*game.Definition, bool) {
	ctor, ok := p[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names returns every card name of the pool, sorted.
func (p Pool) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a new definition for the named card of the registry.
func Lookup(name string) (*game.Definition, bool) {
	return Registry.Lookup(name)
}

// MustLookup is Lookup for names known at compile time.
// Panics if the card is not found.
func MustLookup(name string) *game.Definition {
	def, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return def
}

// Names returns every registered card name, sorted.
func Names() []string {
	return Registry.Names()
}
