package search

import (
	"errors"
	"testing"

	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/counters"
	"github.com/magefree/mage-goldfish/internal/game/mana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// burningLand is a land that deals damage when played.
type burningLand struct {
	game.BaseCapability
	damage int
}

func (burningLand) CanPlay(s *game.State, c *game.Card) bool { return s.LandDrops > 0 }

func (b burningLand) Play(s *game.State, c *game.Card) {
	s.LandDrops--
	s.PutLand(c, false)
	s.DealDamage(c, b.damage)
}

type burn struct {
	game.BaseCapability
	damage int
}

func (b burn) Play(s *game.State, c *game.Card) {
	s.DealDamage(c, b.damage)
	s.Resolve(c)
}

// smolder suspends for one turn and burns out the opponent on the next
// upkeep.
type smolder struct{ game.BaseCapability }

func (smolder) AltPlay(s *game.State, c *game.Card) {
	c.Counters.Add(counters.CounterTypeTime, 1)
	s.Exile.Add(c)
}

func (smolder) Upkeep(s *game.State, c *game.Card) {
	if !s.Exile.Contains(c) {
		return
	}
	c.Counters.Remove(counters.CounterTypeTime, 1)
	if c.Counters.Has(counters.CounterTypeTime) {
		return
	}
	s.Exile.Remove(c)
	s.DealDamage(c, 20)
	s.Graveyard.Add(c)
}

// seek searches for a basic land, which arms any free cast in the library.
type seek struct{ game.BaseCapability }

func (seek) Play(s *game.State, c *game.Card) {
	s.SearchLibrary(game.BasicLand, 1)
	s.Resolve(c)
}

var (
	burningForest = &game.Definition{
		Name: "Burning Forest", Type: game.CardTypeLand, Cost: mana.NewCost(0, 0),
		Flags: game.Basic, Capability: burningLand{damage: 7},
	}
	spark = &game.Definition{
		Name: "Spark", Type: game.CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Capability: burn{damage: 1},
	}
	flare = &game.Definition{
		Name: "Flare", Type: game.CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Capability: burn{damage: 1},
	}
	slowBurn = &game.Definition{
		Name: "Slow Burn", Type: game.CardTypeSorcery, AltCost: mana.MustParseCost("{G}"),
		Capability: smolder{},
	}
	seeker = &game.Definition{
		Name: "Seeker", Type: game.CardTypeSorcery, Cost: mana.MustParseCost("{G}"),
		Capability: seek{},
	}
	hiddenBolt = &game.Definition{
		Name: "Hidden Bolt", Type: game.CardTypeInstant, Cost: mana.NewCost(0, 0),
		Flags: game.CastWhileSearching, Capability: burn{damage: 20},
	}
	blank = &game.Definition{
		Name: "Blank", Type: game.CardTypeSorcery, Capability: game.BaseCapability{},
	}
)

func repeat(def *game.Definition, n int) []*game.Definition {
	defs := make([]*game.Definition, n)
	for i := range defs {
		defs[i] = def
	}
	return defs
}

func newDriver(t *testing.T, maxTurns int) *Driver {
	d := NewDriver(zaptest.NewLogger(t))
	d.MaxTurns = maxTurns
	return d
}

func TestFindFastestWin_NoWinWithinZeroTurns(t *testing.T) {
	root := game.NewState(repeat(burningForest, 20), 1, game.DefaultOptions())

	res, err := newDriver(t, 0).FindFastestWin(root)
	require.NoError(t, err)
	assert.Nil(t, res.Win)
	assert.Equal(t, 0, res.Turn())
	assert.False(t, res.Incomplete)

	started := game.NewState(repeat(burningForest, 20), 1, game.DefaultOptions())
	started.StartTurn()
	res, err = newDriver(t, 0).FindFastestWin(started)
	require.NoError(t, err)
	assert.Nil(t, res.Win)
	assert.Equal(t, 1, res.Expansions)
}

func TestFindFastestWin_FindsEarliestTurn(t *testing.T) {
	root := game.NewState(repeat(burningForest, 30), 9, game.DefaultOptions())
	root.StartTurn()

	res, err := newDriver(t, 8).FindFastestWin(root)
	require.NoError(t, err)
	require.NotNil(t, res.Win)
	assert.Equal(t, 3, res.Turn())
	assert.True(t, res.Win.IsWin())
	assert.Same(t, root, res.Win.Path()[0])
	assert.GreaterOrEqual(t, res.MaxLeaves, 1)
}

func TestFindFastestWin_TurnBudget(t *testing.T) {
	root := game.NewState(repeat(burningForest, 30), 9, game.DefaultOptions())
	root.StartTurn()

	res, err := newDriver(t, 2).FindFastestWin(root)
	require.NoError(t, err)
	assert.Nil(t, res.Win)
}

func TestFindFastestWin_WinningRootIsReturned(t *testing.T) {
	root := game.NewState(repeat(burningForest, 10), 9, game.DefaultOptions())
	root.StartTurn()
	root.OpponentLife = 0

	res, err := newDriver(t, 8).FindFastestWin(root)
	require.NoError(t, err)
	assert.Same(t, root, res.Win)
}

func ensureInHand(t *testing.T, s *game.State, name string) {
	t.Helper()
	if s.Hand.FindByName(name) != nil {
		return
	}
	c := s.Library.FindByName(name)
	require.NotNil(t, c)
	s.Library.Remove(c)
	s.Hand.Add(c)
}

func branchingRoot(t *testing.T) *game.State {
	var defs []*game.Definition
	defs = append(defs, repeat(burningForest, 20)...)
	defs = append(defs, repeat(spark, 20)...)
	defs = append(defs, repeat(flare, 20)...)
	root := game.NewState(defs, 77, game.DefaultOptions())
	root.OpponentLife = 12
	root.StartTurn()
	ensureInHand(t, root, "Burning Forest")
	ensureInHand(t, root, "Spark")
	ensureInHand(t, root, "Flare")
	root.Ledger.AddTemporary(2, 0)
	return root
}

func TestFindFastestWin_LeafLimitSamples(t *testing.T) {
	d := newDriver(t, 8)
	d.LeafLimit = 1

	res, err := d.FindFastestWin(branchingRoot(t))
	require.NoError(t, err)
	assert.True(t, res.Incomplete)
	require.NotNil(t, res.Win)
	assert.True(t, res.Win.IsWin())

	again, err := d.FindFastestWin(branchingRoot(t))
	require.NoError(t, err)
	require.NotNil(t, again.Win)
	assert.Equal(t, res.Win.Checksum(), again.Win.Checksum(), "sampling is deterministic")
}

// countNodes counts the distinct states of the explored tree.
func countNodes(root *game.State) int {
	n := 0
	stack := []*game.State{root}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, c := range st.Children {
			if c != st {
				stack = append(stack, c)
			}
		}
	}
	return n
}

func TestFindFastestWin_LeafLimitBoundsTree(t *testing.T) {
	full := branchingRoot(t)
	full.OpponentLife = 1000
	d := newDriver(t, 3)
	d.LeafLimit = 0
	res, err := d.FindFastestWin(full)
	require.NoError(t, err)
	require.Nil(t, res.Win)
	assert.False(t, res.Incomplete)
	require.Greater(t, res.MaxLeaves, 1)

	bounded := branchingRoot(t)
	bounded.OpponentLife = 1000
	d = newDriver(t, 3)
	d.LeafLimit = 1
	limited, err := d.FindFastestWin(bounded)
	require.NoError(t, err)
	require.Nil(t, limited.Win)
	assert.True(t, limited.Incomplete)

	assert.Less(t, countNodes(bounded), countNodes(full))
}

func TestFindFastestWin_PrefersWinOnOpenTurn(t *testing.T) {
	var defs []*game.Definition
	defs = append(defs, slowBurn, seeker, hiddenBolt)
	defs = append(defs, repeat(blank, 10)...)
	root := game.NewState(defs, 5, game.DefaultOptions())
	root.Turn = 1
	root.LandDrops = 1
	// The suspended burn comes first, so its turn 2 win is found while the
	// turn 1 free cast is still unexpanded.
	ensureInHand(t, root, "Slow Burn")
	ensureInHand(t, root, "Seeker")
	root.Ledger.AddTemporary(1, 0)

	res, err := newDriver(t, 8).FindFastestWin(root)
	require.NoError(t, err)
	require.NotNil(t, res.Win)
	assert.Equal(t, 1, res.Turn())
	assert.Contains(t, res.Win.LastLog(), "Hidden Bolt dealt 20 damage and won the game")
}

func TestFindFastestWin_DepthLimit(t *testing.T) {
	root := game.NewState(repeat(burningForest, 30), 9, game.DefaultOptions())
	root.OpponentLife = 1000
	root.StartTurn()

	d := newDriver(t, 20)
	d.MaxDepth = 2
	_, err := d.FindFastestWin(root)
	require.Error(t, err)

	var depthErr *DepthError
	require.True(t, errors.As(err, &depthErr))
	assert.Equal(t, 3, depthErr.Depth)
	assert.Contains(t, depthErr.Path, "<land drop>")
}

func TestFindFastestWin_EverythingPruned(t *testing.T) {
	opts := game.DefaultOptions()
	opts.Prune = func(*game.State) bool { return true }
	root := game.NewState(repeat(burningForest, 30), 9, opts)
	root.StartTurn()

	res, err := newDriver(t, 8).FindFastestWin(root)
	require.NoError(t, err)
	assert.Nil(t, res.Win)
	assert.Equal(t, 2, res.Expansions)
}
