package optimizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/magefree/mage-goldfish/internal/cards"
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/mana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// fireblast wins on the spot for free.
type fireblast struct{ game.BaseCapability }

func (fireblast) Play(s *game.State, c *game.Card) {
	s.DealDamage(c, 20)
	s.Resolve(c)
}

// cursedIdol corrupts the game as soon as it is cast.
type cursedIdol struct{ game.BaseCapability }

func (cursedIdol) Play(s *game.State, c *game.Card) {
	panic(&mana.InvariantError{Op: "debit", Detail: "negative pool", Ledger: s.Ledger})
}

func fireblastDef() *game.Definition {
	return &game.Definition{Name: "Fireblast", Type: game.CardTypeSorcery, Cost: mana.NewCost(0, 0), Capability: fireblast{}}
}

func cursedIdolDef() *game.Definition {
	return &game.Definition{Name: "Cursed Idol", Type: game.CardTypeArtifact, Cost: mana.NewCost(0, 0), Capability: cursedIdol{}}
}

var testPool = cards.Pool{
	"Forest":      cards.Forest,
	"Fireblast":   fireblastDef,
	"Cursed Idol": cursedIdolDef,
}

func newTestEvaluator(t *testing.T, trials, maxTurns int) *Evaluator {
	t.Helper()
	e := NewEvaluator(99, zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
	e.Trials = trials
	e.Workers = 4
	e.MaxTurns = maxTurns
	e.Pool = testPool
	return e
}

func testRange() DeckRange {
	return DeckRange{
		{Name: "Fireblast", Quantity: 1, Min: 0, Max: 4},
		{Name: "Forest", Quantity: 9, Min: 5, Max: 12},
	}
}

func TestTrialSeeds(t *testing.T) {
	e := newTestEvaluator(t, 5, 3)
	first := e.TrialSeeds(1)
	assert.Len(t, first, 5)
	assert.Equal(t, first, e.TrialSeeds(1))
	assert.NotEqual(t, first, e.TrialSeeds(2))
}

func TestEvaluate_NoWin(t *testing.T) {
	e := newTestEvaluator(t, 20, 3)

	ev, err := e.Evaluate(context.Background(), "10 Forest\n", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Wins)
	assert.Equal(t, 0, ev.Errors)
	assert.InDelta(t, 4.0, ev.Mean, 1e-9)
	assert.Empty(t, ev.LineFrequency)
}

func TestEvaluate_Wins(t *testing.T) {
	e := newTestEvaluator(t, 50, 4)

	ev, err := e.Evaluate(context.Background(), "1 Fireblast\n9 Forest\n", 1)
	require.NoError(t, err)
	// Ten cards are all drawn by turn 4.
	assert.Equal(t, 50, ev.Wins)
	assert.GreaterOrEqual(t, ev.Mean, 1.0)
	assert.LessOrEqual(t, ev.Mean, 4.0)
	assert.Equal(t, 50, ev.LineFrequency["Play: Fireblast"])
	require.NotEmpty(t, ev.TopLines(3))
	assert.LessOrEqual(t, len(ev.TopLines(3)), 3)

	again, err := e.Evaluate(context.Background(), "1 Fireblast\n9 Forest\n", 1)
	require.NoError(t, err)
	assert.Equal(t, ev.Mean, again.Mean)
	for i := range ev.Trials {
		assert.Equal(t, ev.Trials[i].Turn, again.Trials[i].Turn)
	}
}

func TestEvaluate_RecoversInvariantPanic(t *testing.T) {
	e := newTestEvaluator(t, 4, 3)

	ev, err := e.Evaluate(context.Background(), "10 Cursed Idol\n", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, ev.Errors)
	assert.InDelta(t, 4.0, ev.Mean, 1e-9)
	for _, trial := range ev.Trials {
		assert.ErrorIs(t, trial.Err, ErrInvariant)
		var inv *mana.InvariantError
		require.True(t, errors.As(trial.Err, &inv))
		assert.Equal(t, "debit", inv.Op)
	}
}

func TestEvaluate_BadDecklist(t *testing.T) {
	e := newTestEvaluator(t, 1, 3)
	_, err := e.Evaluate(context.Background(), "Forest\n", 1)
	assert.Error(t, err)
}

func TestEvaluate_Cancelled(t *testing.T) {
	e := newTestEvaluator(t, 10, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Evaluate(ctx, "10 Forest\n", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEpoch_PicksBestNeighbours(t *testing.T) {
	o := New(testRange(), newTestEvaluator(t, 200, 4), zaptest.NewLogger(t))

	report, err := o.RunEpoch(context.Background(), testRange(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1 Fireblast\n9 Forest\n", report.Decklist)
	require.Len(t, report.Adds, 2)
	require.Len(t, report.Removes, 2)
	assert.Equal(t, "Fireblast", report.BestAdd)
	assert.Equal(t, "Forest", report.BestRemove)
	assert.Less(t, report.Adds[0].Delta, 0.0)
	assert.LessOrEqual(t, report.Adds[0].Mean, report.Adds[1].Mean)
	assert.LessOrEqual(t, report.Removes[0].Mean, report.Removes[1].Mean)
	assert.InDelta(t, (report.Adds[0].Mean+report.Removes[0].Mean)/2, report.BestMean, 1e-9)
	assert.False(t, report.Applied)
}

func TestRun_AppliesEpochs(t *testing.T) {
	o := New(testRange(), newTestEvaluator(t, 200, 4), zaptest.NewLogger(t))
	o.Epochs = 2

	var mu sync.Mutex
	var seen []int
	o.Observers = append(o.Observers, ObserverFunc(func(r EpochReport) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Epoch)
	}))

	final, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, final[0].Quantity)
	assert.Equal(t, 7, final[1].Quantity)
	assert.Equal(t, 10, final.Size())

	snap := o.Snapshot()
	assert.Equal(t, RunStateFinished, snap.State)
	assert.Equal(t, 2, snap.Epoch)
	require.Len(t, snap.Reports, 2)
	assert.True(t, snap.Reports[0].Applied)
	assert.NotNil(t, snap.StartTime)
	assert.NotNil(t, snap.EndTime)

	_, err = o.Run(context.Background())
	assert.Error(t, err, "a run cannot be restarted")
}

func TestRun_Cancelled(t *testing.T) {
	o := New(testRange(), newTestEvaluator(t, 10, 3), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, testRange(), r)
	assert.Equal(t, RunStateCancelled, o.State())
	assert.Equal(t, "CANCELLED", o.State().String())
}

func TestRun_FailedEpoch(t *testing.T) {
	// The name spills a malformed line into the decklist.
	r := DeckRange{{Name: "Forest\nnot a card line", Quantity: 1, Min: 1, Max: 1}}
	o := New(r, newTestEvaluator(t, 2, 2), zaptest.NewLogger(t))

	final, err := o.Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Equal(t, r, final)
	assert.Equal(t, RunStateFailed, o.State())
	assert.Equal(t, "FAILED", o.State().String())
	assert.NotNil(t, o.Snapshot().EndTime)
}

func TestRunEpoch_NoNeighbourKeepsRange(t *testing.T) {
	r := DeckRange{{Name: "Forest", Quantity: 10, Min: 10, Max: 10}}
	o := New(r, newTestEvaluator(t, 2, 2), zaptest.NewLogger(t))
	o.Epochs = 1

	final, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r, final)
	assert.False(t, o.Snapshot().Reports[0].Applied)
}
