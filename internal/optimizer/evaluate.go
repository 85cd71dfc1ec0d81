package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/magefree/mage-goldfish/internal/cards"
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/game/mana"
	"github.com/magefree/mage-goldfish/internal/search"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultTrials = 1000

// ErrInvariant wraps a ledger invariant violation recovered from a trial.
var ErrInvariant = errors.New("invariant violated")

// TrialResult is the outcome of one game.
type TrialResult struct {
	Index int
	Seed  uint64
	// Turn is the winning turn, or MaxTurns+1 without a win.
	Turn       int
	Won        bool
	Incomplete bool
	Expansions int
	MaxLeaves  int
	// WinningLog is the transcript of the winning line.
	WinningLog []string
	Err        error
	Duration   time.Duration
}

// Evaluation aggregates the trials of one decklist.
type Evaluation struct {
	Decklist string
	Trials   []TrialResult
	// Mean is the average winning turn, lower is better.
	Mean     float64
	Wins     int
	Errors   int
	Duration time.Duration
	// LineFrequency counts, over every winning line, how many wins logged
	// each message.
	LineFrequency map[string]int
}

// LineCount is one entry of Evaluation.TopLines.
type LineCount struct {
	Line  string
	Count int
}

// TopLines returns the n most frequent winning log lines, most frequent
// first, ties by text.
func (e *Evaluation) TopLines(n int) []LineCount {
	out := make([]LineCount, 0, len(e.LineFrequency))
	for line, count := range e.LineFrequency {
		out = append(out, LineCount{Line: line, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Line < out[j].Line
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Evaluator plays many goldfish games of a decklist and scores it.
type Evaluator struct {
	Trials    int
	Workers   int
	MaxTurns  int
	LeafLimit int
	MaxDepth  int
	// Seed is the base of every trial seed.
	Seed    uint64
	Options game.Options
	Pool    cards.Pool
	Logger  *zap.Logger
}

// NewEvaluator creates an evaluator with the default limits over the full
// card pool.
func NewEvaluator(seed uint64, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		Trials:    DefaultTrials,
		Workers:   runtime.GOMAXPROCS(0),
		MaxTurns:  search.DefaultMaxTurns,
		LeafLimit: search.DefaultLeafLimit,
		MaxDepth:  search.DefaultMaxDepth,
		Seed:      seed,
		Options:   game.DefaultOptions(),
		Pool:      cards.Registry,
		Logger:    logger,
	}
}

// TrialSeeds returns the seeds of the trials of an epoch. Every decklist of
// an epoch is played with the same seeds, so neighbours are compared on the
// same random numbers.
func (e *Evaluator) TrialSeeds(epoch int) []uint64 {
	rng := rand.New(rand.NewPCG(e.Seed, uint64(epoch)))
	seeds := make([]uint64, e.Trials)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}
	return seeds
}

// Evaluate plays every trial of decklist for the given epoch. A failing
// trial is logged and scored as a loss; only cancellation and an unparsable
// decklist are errors.
func (e *Evaluator) Evaluate(ctx context.Context, decklist string, epoch int) (*Evaluation, error) {
	logger := e.logger()
	deck, err := e.pool().ParseDecklist(decklist, logger)
	if err != nil {
		return nil, fmt.Errorf("parse decklist: %w", err)
	}
	defs := deck.Definitions()
	seeds := e.TrialSeeds(epoch)

	start := time.Now()
	results := make([]TrialResult, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.runTrial(defs, i, seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ev := &Evaluation{
		Decklist:      decklist,
		Trials:        results,
		Duration:      time.Since(start),
		LineFrequency: make(map[string]int),
	}
	total := 0
	for _, r := range results {
		total += r.Turn
		if r.Won {
			ev.Wins++
		}
		if r.Err != nil {
			ev.Errors++
		}
		for _, line := range r.WinningLog {
			ev.LineFrequency[strings.TrimSpace(line)]++
		}
	}
	if len(results) > 0 {
		ev.Mean = float64(total) / float64(len(results))
	}

	logger.Debug("decklist evaluated",
		zap.Int("epoch", epoch),
		zap.Int("cards", deck.Size()),
		zap.Float64("mean_turn", ev.Mean),
		zap.Int("wins", ev.Wins),
		zap.Int("errors", ev.Errors),
		zap.Duration("duration", ev.Duration),
	)
	return ev, nil
}

// runTrial plays one game. A panic in the game is recovered here and
// turned into the trial's error.
func (e *Evaluator) runTrial(defs []*game.Definition, index int, seed uint64) (res TrialResult) {
	res = TrialResult{Index: index, Seed: seed, Turn: e.MaxTurns + 1}
	start := time.Now()
	logger := e.logger()

	defer func() {
		res.Duration = time.Since(start)
		if recovered := recover(); recovered != nil {
			var inv *mana.InvariantError
			if err, ok := recovered.(error); ok && errors.As(err, &inv) {
				res.Err = fmt.Errorf("trial %d: %w: %w", index, ErrInvariant, inv)
			} else {
				res.Err = fmt.Errorf("trial %d panicked: %v", index, recovered)
			}
			res.Turn, res.Won, res.WinningLog = e.MaxTurns+1, false, nil
			logger.Error("trial aborted",
				zap.Int("trial", index),
				zap.Uint64("seed", seed),
				zap.Error(res.Err),
				zap.String("stack", strings.TrimSpace(string(debug.Stack()))),
			)
		}
	}()

	root := game.NewState(defs, seed, e.Options)
	root.StartTurn()

	driver := &search.Driver{
		MaxTurns:  e.MaxTurns,
		LeafLimit: e.LeafLimit,
		MaxDepth:  e.MaxDepth,
		Logger:    logger.With(zap.Int("trial", index)),
	}
	sr, err := driver.FindFastestWin(root)
	res.Expansions = sr.Expansions
	res.MaxLeaves = sr.MaxLeaves
	res.Incomplete = sr.Incomplete
	if err != nil {
		res.Err = fmt.Errorf("trial %d: %w", index, err)
		logger.Error("trial failed", zap.Int("trial", index), zap.Uint64("seed", seed), zap.Error(err))
		return res
	}

	if sr.Win != nil {
		res.Won = true
		res.Turn = sr.Win.Turn
		res.WinningLog = sr.Win.Log
		if ce := logger.Check(zap.DebugLevel, "found win"); ce != nil {
			ce.Write(
				zap.Int("trial", index),
				zap.Int("turn", res.Turn),
				zap.Int("expansions", sr.Expansions),
				zap.String("state", sr.Win.Short()),
				zap.Strings("log", sr.Win.Log),
			)
		}
		return res
	}
	logger.Debug("no win found",
		zap.Int("trial", index),
		zap.Int("max_leaves", sr.MaxLeaves),
		zap.Bool("incomplete", sr.Incomplete),
	)
	return res
}

func (e *Evaluator) pool() cards.Pool {
	if e.Pool == nil {
		return cards.Registry
	}
	return e.Pool
}

func (e *Evaluator) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// evaluateAll evaluates decklists one after the other, keeping their order.
func (e *Evaluator) evaluateAll(ctx context.Context, decklists []string, epoch int) ([]*Evaluation, error) {
	out := make([]*Evaluation, len(decklists))
	for i, text := range decklists {
		ev, err := e.Evaluate(ctx, text, epoch)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}
